package database

import (
	"log"

	config "github.com/prasetyodwi/forklift_rental/configs"
	"github.com/prasetyodwi/forklift_rental/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Connect opens the connection pool. The handle is passed to handlers and
// jobs explicitly; nothing in this codebase holds it as package state.
func Connect() *gorm.DB {
	dsn := config.MustConfig("DATABASE_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	log.Println("✅ Database connected successfully")
	return db
}

func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Unit{},
		&models.Operator{},
		&models.Order{},
		&models.Payment{},
		&models.TransferProof{},
		&models.TransactionLog{},
		&models.Feedback{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	log.Println("✅ Database migration successful")
}

// WithRowLock adds SELECT ... FOR UPDATE to the query so read-modify-write
// sequences on orders and units serialize. SQLite (used by the test suite)
// has no FOR UPDATE; its single-writer model already gives the same guarantee.
func WithRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func SeedAdmin(db *gorm.DB) {
	adminUsername := config.Config("ADMIN_USERNAME")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminUsername == "" || adminPassword == "" {
		log.Println("⚠️ ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", adminUsername).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
	}
	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
	}

	admin := models.User{
		Username: adminUsername,
		FullName: config.Config("ADMIN_FULL_NAME"),
		Email:    config.Config("ADMIN_EMAIL"),
		Password: string(hashedPassword),
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
	}
	log.Println("✅ Admin user seeded successfully")
}
