package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// FrontendURL is the base URL the payment gateway redirects to after a
	// successful payment.
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Xendit   XenditConfig
	OpenCage OpenCageConfig
	SMTP     SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=kirimaja"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type XenditConfig struct {
	APIKey string `env:"XENDIT_API_KEY"`
	// CallbackToken is checked against the x-callback-token webhook header
	// when set.
	CallbackToken string `env:"XENDIT_CALLBACK_TOKEN"`
	// InvoiceDurationSeconds is how long an invoice stays payable.
	InvoiceDurationSeconds int `env:"XENDIT_INVOICE_DURATION, default=600"`
}

type OpenCageConfig struct {
	APIKey string `env:"OPENCAGE_API_KEY"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=2525"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	Sender   string `env:"SMTP_EMAIL_SENDER, default=noreply@kirimaja.id"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
