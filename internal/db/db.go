package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	config "github.com/gemnoir/jewelry-api/configs"
	"github.com/gemnoir/jewelry-api/internal/logging"
	"github.com/gemnoir/jewelry-api/internal/models"
)

var DB *gorm.DB

func Init(cfg config.DatabaseConfig) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	var err error

	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logging.L.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := Migrate(DB); err != nil {
		logging.L.Fatal("failed to migrate database", zap.Error(err))
	}

	logging.L.Info("database connected and migrated",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name))
}

// Migrate applies the schema. Shared with the test harness, which runs it
// against an in-memory sqlite database.
func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	)
}

func SetTestDB(testDB *gorm.DB) {
	DB = testDB
}
