package db

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to DB:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("❌ Failed to migrate DB:", err)
	}

	log.Println("✅ Connected to DB")
}

// Migrate creates or updates the schema for every tracked entity.
func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&ChatUser{},
		&Stats{},
		&KarmaCooldown{},
		&InviteLink{},
		&InviteJoin{},
		&ChatConfig{},
	)
}
