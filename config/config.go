package config

import (
	"log"

	"buildflow-api/models"

	"github.com/caarlos0/env/v9"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`
	DBPath  string `env:"DB_PATH" envDefault:"buildflow.db"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"buildflow_super_secret_2024"`

	// Side-effect collaborators. Empty values put the senders in mock mode.
	ResendAPIKey    string `env:"RESEND_API_KEY"`
	EmailFrom       string `env:"EMAIL_FROM" envDefault:"Buildflow <onboarding@resend.dev>"`
	FirebaseCreds   string `env:"FIREBASE_CREDENTIALS_FILE"`
	RazorpayKeyID   string `env:"RAZORPAY_KEY_ID" envDefault:"rzp_test_mock_key"`
	RazorpaySecret  string `env:"RAZORPAY_KEY_SECRET" envDefault:"rzp_test_mock_secret"`
	BaseDeliveryFee float64 `env:"BASE_DELIVERY_FEE" envDefault:"15"`
}

var DB *gorm.DB

// JWTSecret used to sign tokens; set from config in Load
var JWTSecret []byte

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	JWTSecret = []byte(cfg.JWTSecret)
	return &cfg, nil
}

func InitDB(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Delivery{},
		&models.EventLog{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("✅ Database connected and migrated successfully")
}
