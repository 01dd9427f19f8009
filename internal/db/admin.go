package db

import (
	"errors"
	"strings"

	"github.com/bilalcs1781/cryptobackend/internal/config" // Application configuration
	"github.com/bilalcs1781/cryptobackend/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// EnsureAdmin creates the bootstrap admin account on startup when
// ADMIN_EMAIL and ADMIN_PASSWORD are configured. Safe to run on every
// startup: an existing account with the admin email is left untouched.
func EnsureAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logrus.Warn("ADMIN_EMAIL and ADMIN_PASSWORD not set, admin user will not be created")
		return nil
	}
	email := strings.ToLower(cfg.AdminEmail) // Normalized admin email
	var existing domain.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		// Admin account already exists
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	// Hash the bootstrap password
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := domain.User{
		Name:     cfg.AdminName, // Display name
		Email:    email,         // Normalized email
		Password: string(hash),  // Hashed password
		Role:     "admin",       // Admin role
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"email": email}).Info("Admin user created") // Log admin creation
	return nil
}
