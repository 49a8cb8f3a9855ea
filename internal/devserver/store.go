package devserver

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the embedded database.
type Store struct {
	db *gorm.DB
}

// OpenStore opens the sqlite database at dsn and runs migrations.
func OpenStore(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&companyRecord{},
		&userRecord{},
		&sessionRecord{},
		&taskRecord{},
		&categoryRecord{},
		&subjectRecord{},
		&noteRecord{},
		&attachmentRecord{},
		&timelineRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// SeedDefaults creates a company and an admin user when the database is
// empty, so a fresh dev server is immediately usable. Returns the seeded
// credentials message for the log.
func (s *Store) SeedDefaults() error {
	var count int64
	if err := s.db.Model(&userRecord{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	company := companyRecord{
		ID:        uuid.NewString(),
		Name:      "Dev Company",
		Plan:      "trial",
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&company).Error; err != nil {
		return fmt.Errorf("failed to seed company: %w", err)
	}

	user := userRecord{
		ID:           uuid.NewString(),
		Name:         "Admin",
		Email:        "admin@dev.local",
		PasswordHash: string(hash),
		CompanyID:    company.ID,
		Admin:        true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}

	log.Printf("seeded dev login admin@dev.local/admin (company %s)", company.ID)
	return nil
}
