package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Admin    AdminConfig
	VietQR   VietQRConfig
	MoMo     MoMoConfig
	Email    EmailConfig
	SMS      SMSConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// AdminConfig drives the idempotent admin bootstrap at startup.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

type VietQRConfig struct {
	BankCode    string
	AccountNo   string
	AccountName string
}

type MoMoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	RedirectURL string
	IPNURL      string
}

type EmailConfig struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	SenderEmail        string
}

type SMSConfig struct {
	Username string
	APIKey   string
	SMSURL   string
	SenderID string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("MYSQL_HOST", "localhost"),
			Port:     getEnvOrDefault("MYSQL_PORT", "3306"),
			User:     getEnvOrDefault("MYSQL_USER", "jewelry"),
			Password: getEnvOrDefault("MYSQL_PASSWORD", "jewelry"),
			Name:     getEnvOrDefault("MYSQL_DATABASE", "jewelry"),
		},
		JWT: JWTConfig{
			Secret:   getEnvOrDefault("JWT_SECRET", "change-me"),
			TokenTTL: getEnvDuration("JWT_TTL", 24*time.Hour),
		},
		Admin: AdminConfig{
			Name:     getEnvOrDefault("ADMIN_NAME", "Store Admin"),
			Email:    getEnvOrDefault("ADMIN_EMAIL", "admin@gemnoir.local"),
			Password: getEnvOrDefault("ADMIN_PASSWORD", "admin123"),
		},
		VietQR: VietQRConfig{
			BankCode:    getEnvOrDefault("VIETQR_BANK_CODE", "970436"),
			AccountNo:   getEnvOrDefault("VIETQR_ACCOUNT_NO", "0000000000"),
			AccountName: getEnvOrDefault("VIETQR_ACCOUNT_NAME", "GEMNOIR JEWELRY"),
		},
		MoMo: MoMoConfig{
			PartnerCode: os.Getenv("MOMO_PARTNER_CODE"),
			AccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
			SecretKey:   os.Getenv("MOMO_SECRET_KEY"),
			Endpoint:    getEnvOrDefault("MOMO_ENDPOINT", "https://test-payment.momo.vn"),
			RedirectURL: os.Getenv("MOMO_REDIRECT_URL"),
			IPNURL:      os.Getenv("MOMO_IPN_URL"),
		},
		Email: EmailConfig{
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			AWSRegion:          getEnvOrDefault("AWS_REGION", "ap-southeast-1"),
			SenderEmail:        os.Getenv("AWS_SENDER_ADDRESS"),
		},
		SMS: SMSConfig{
			Username: os.Getenv("AT_USERNAME"),
			APIKey:   os.Getenv("AT_API_KEY"),
			SMSURL:   getEnvOrDefault("AT_SMS_URL", "https://api.sandbox.africastalking.com/version1/messaging"),
			SenderID: getEnvOrDefault("AT_SENDER_ID", "AFRICASTKNG"),
		},
	}
}

// Configured reports whether the live MoMo path has everything it needs.
// Anything missing means the payment adapter serves the static mock instead.
func (m MoMoConfig) Configured() bool {
	return m.PartnerCode != "" && m.AccessKey != "" && m.SecretKey != "" && m.Endpoint != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
