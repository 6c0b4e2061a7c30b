package database

import (
	"fmt"
	"log"
	"os"

	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/companies"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/invoices"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/jobs"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/offertes"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/subscriptions"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/users"
	"github.com/Squirrel-Richard/vakmanapp-nl/internal/domain/werkbonnen"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	fmt.Println("Connected and migrated successfully")
}

// Migrate runs AutoMigrate for all domain models. Shared with the sqlite test
// harness, which opens its own in-memory DB.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// accounts & tenancy
		&users.User{},
		&companies.Company{},
		&companies.Client{},
		&companies.Employee{},
		&subscriptions.Subscription{},

		// work
		&jobs.Job{},
		&werkbonnen.Werkbon{},

		// paperwork
		&invoices.Invoice{},
		&offertes.Offerte{},
	)
}
