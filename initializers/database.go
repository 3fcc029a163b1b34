package initializers

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/filedrop/dataroom-backend/models"
)

var DB *gorm.DB

func ConnectToDatabase() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: No .env file found. Using system environment variables.")
	}

	dsn := os.Getenv("DB_URL")
	var err error
	if dsn != "" {
		DB, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	} else {
		// Local development fallback so the tool runs without a
		// provisioned postgres instance.
		log.Println("⚠️  DB_URL not set, falling back to local sqlite database dataroom.db")
		DB, err = gorm.Open(sqlite.Open("dataroom.db"), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("❌ Failed to connect to the database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("❌ Failed to migrate database schema: %v", err)
	}
	log.Println("✅ Database connected and migrated successfully")
}

// Migrate creates or updates the schema for all dataroom models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.DataEndpoint{},
		&models.UploadedFile{},
		&models.FileDownload{},
		&models.BulkDownload{},
	)
}
