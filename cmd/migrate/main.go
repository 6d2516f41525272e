package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"homeservice.backend/internal/config"
	"homeservice.backend/internal/infrastructure/datasources/postgres"
	"homeservice.backend/internal/infrastructure/models"
	"homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/utils"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	openDB     = postgres.NewConnection
	closeDB    = func(db *gorm.DB) {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
)

// defaultCategories are created on -seed when no category of that name exists.
var defaultCategories = []models.ServiceCategory{
	{Name: "Cleaning", Icon: "cleaning"},
	{Name: "Repair", Icon: "repair"},
}

func main() {
	seed := flag.Bool("seed", false, "insert the default service categories")
	flag.Parse()

	if err := run(*seed); err != nil {
		log.Fatal(err)
	}
}

func run(seed bool) error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := loadCfg()

	logger.Init(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer closeDB(db)

	if err := migrate(db); err != nil {
		return err
	}
	logger.Info(ctx, "Schema migrated", zap.Int("tables", len(models.All())))

	if !seed {
		return nil
	}
	created, err := seedCategories(db)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Catalog seeded", zap.Int("categories_created", created))
	return nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// seedCategories inserts missing default categories and returns how many were created.
func seedCategories(db *gorm.DB) (int, error) {
	created := 0
	for _, def := range defaultCategories {
		var existing models.ServiceCategory
		err := db.Where("name = ?", def.Name).Limit(1).Find(&existing).Error
		if err != nil {
			return created, fmt.Errorf("failed to look up category %q: %w", def.Name, err)
		}
		if existing.Name != "" {
			continue
		}
		category := def
		category.ID = utils.GenerateUUIDv7()
		if err := db.Create(&category).Error; err != nil {
			return created, fmt.Errorf("failed to create category %q: %w", def.Name, err)
		}
		created++
	}
	return created, nil
}
