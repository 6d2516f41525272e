package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeservice.backend/pkg/crypto"
)

func captureMain(t *testing.T, args ...string) (string, []string) {
	t.Helper()
	origArgs, origPrintf, origFatalf := os.Args, printfFn, fatalfFn
	t.Cleanup(func() {
		os.Args, printfFn, fatalfFn = origArgs, origPrintf, origFatalf
	})

	var out strings.Builder
	var fatals []string
	os.Args = append([]string{"hash-gen"}, args...)
	printfFn = func(format string, a ...interface{}) (int, error) {
		return fmt.Fprintf(&out, format, a...)
	}
	fatalfFn = func(format string, a ...interface{}) {
		fatals = append(fatals, fmt.Sprintf(format, a...))
	}

	main()
	return out.String(), fatals
}

func TestResolvePassword(t *testing.T) {
	_, err := resolvePassword(nil)
	assert.ErrorIs(t, err, errUsage)

	_, err = resolvePassword([]string{"abc"})
	assert.Error(t, err)

	got, err := resolvePassword([]string{"secret123"})
	require.NoError(t, err)
	assert.Equal(t, "secret123", got)
}

func TestMain_PrintsVerifiableHash(t *testing.T) {
	out, fatals := captureMain(t, "secret123")
	require.Empty(t, fatals)
	require.True(t, strings.HasPrefix(out, "Bcrypt Hash: "))

	hash := strings.TrimSpace(strings.TrimPrefix(out, "Bcrypt Hash: "))
	assert.True(t, crypto.CheckPassword("secret123", hash))
}

func TestMain_MissingPassword(t *testing.T) {
	out, fatals := captureMain(t)
	assert.Empty(t, out)
	require.Len(t, fatals, 1)
	assert.Contains(t, fatals[0], "usage")
}

func TestMain_HashFailure(t *testing.T) {
	orig := generateHashFn
	t.Cleanup(func() { generateHashFn = orig })
	generateHashFn = func(string) (string, error) { return "", errors.New("entropy exhausted") }

	out, fatals := captureMain(t, "secret123")
	assert.Empty(t, out)
	require.Len(t, fatals, 1)
	assert.Contains(t, fatals[0], "entropy exhausted")
}
