package db

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	config "github.com/gemnoir/jewelry-api/configs"
	"github.com/gemnoir/jewelry-api/internal/logging"
	"github.com/gemnoir/jewelry-api/internal/models"
)

// SeedAdmin creates the admin account once, at startup. Re-running is a
// no-op when the account already exists.
func SeedAdmin(cfg config.AdminConfig) {
	var admin models.Customer
	err := DB.Where("email = ?", cfg.Email).First(&admin).Error

	if err == nil {
		logging.L.Debug("admin account already present", zap.String("email", cfg.Email))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.L.Fatal("failed to look up admin account", zap.Error(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		logging.L.Fatal("failed to hash admin password", zap.Error(err))
	}

	admin = models.Customer{
		Name:         cfg.Name,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		logging.L.Fatal("failed to create admin account", zap.Error(err))
	}

	logging.L.Info("admin account created", zap.String("email", cfg.Email))
}
