package database

import (
	"fmt"
	"log"

	"github.com/clubtryara/pos/internal/config"
	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/pkg/utils"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Table{},
		&entity.Product{},
		&entity.Sale{},
		&entity.SaleLine{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the default cashier account plus a starter floor
// plan and menu when the tables are empty.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	cashierUsername := viper.GetString("CASHIER_USERNAME")
	cashierPassword := viper.GetString("CASHIER_PASSWORD")
	if cashierUsername != "" && cashierPassword != "" {
		var existing entity.User
		if err := db.Where("username = ?", cashierUsername).First(&existing).Error; err != nil {
			hashed, err := utils.HashPassword(cashierPassword)
			if err != nil {
				log.Printf("Warning: failed to hash cashier password: %v", err)
			} else {
				cashier := entity.User{
					Name:     viper.GetString("CASHIER_NAME"),
					Username: cashierUsername,
					Password: hashed,
					Active:   true,
				}
				if cashier.Name == "" {
					cashier.Name = "Cashier"
				}
				if err := db.Create(&cashier).Error; err != nil {
					log.Printf("Warning: failed to create cashier user: %v", err)
				} else {
					log.Printf("Cashier account created: %s", cashierUsername)
				}
			}
		}
	}

	var tableCount int64
	db.Model(&entity.Table{}).Count(&tableCount)
	if tableCount == 0 {
		tables := []entity.Table{
			{Name: "Walk-in", TableNumber: "1", PartySize: 4, Status: "available", Price: 0},
			{Name: "Walk-in", TableNumber: "2", PartySize: 4, Status: "available", Price: 0},
			{Name: "VIP Booth", TableNumber: "V1", PartySize: 8, Status: "available", Price: 1500},
			{Name: "VIP Booth", TableNumber: "V2", PartySize: 10, Status: "available", Price: 2500},
		}
		for i := range tables {
			if err := db.Create(&tables[i]).Error; err != nil {
				log.Printf("Warning: failed to seed table %s: %v", tables[i].TableNumber, err)
			}
		}
	}

	var productCount int64
	db.Model(&entity.Product{}).Count(&productCount)
	if productCount == 0 {
		products := []entity.Product{
			{Name: "Beer", Price: 12000, Quantity: 200},   // centavos
			{Name: "Cocktail", Price: 25000, Quantity: 80},
			{Name: "Water", Price: 5000, Quantity: 300},
		}
		for i := range products {
			if err := db.Create(&products[i]).Error; err != nil {
				log.Printf("Warning: failed to seed product %s: %v", products[i].Name, err)
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
