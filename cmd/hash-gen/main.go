// Command hash-gen prints a bcrypt hash for seeding an account password by hand.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"homeservice.backend/internal/domain/entities"
	"homeservice.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = crypto.HashPassword
	fatalfFn       = log.Fatalf
)

var errUsage = errors.New("usage: hash-gen <password>")

func resolvePassword(args []string) (string, error) {
	if len(args) == 0 {
		return "", errUsage
	}
	if len(args[0]) < entities.MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", entities.MinPasswordLength)
	}
	return args[0], nil
}

func main() {
	password, err := resolvePassword(os.Args[1:])
	if err != nil {
		fatalfFn("%v", err)
		return
	}

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
		return
	}

	printfFn("Bcrypt Hash: %s\n", hash)
	if !crypto.CheckPassword(password, hash) {
		fatalfFn("Generated hash does not verify")
	}
}
