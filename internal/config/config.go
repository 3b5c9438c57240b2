package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	DB DB `envPrefix:"DB_"`

	// JWT
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`

	Razorpay Razorpay `envPrefix:"RAZORPAY_"`
	Brevo    Brevo    `envPrefix:"BREVO_"`
	OTP      OTP      `envPrefix:"OTP_"`

	// Admin bootstrap
	AdminEmails string `env:"ADMIN_EMAILS"`
	AdminToken  string `env:"ADMIN_TOKEN"`

	// Payment-proof uploads
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./uploads"`
}

type DB struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"storefront"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type Razorpay struct {
	BaseAPIURL string `env:"BASE_API_URL" envDefault:"https://api.razorpay.com"`
	KeyID      string `env:"KEY_ID"`
	KeySecret  string `env:"KEY_SECRET"`
}

type Brevo struct {
	BaseAPIURL  string `env:"BASE_API_URL" envDefault:"https://api.brevo.com"`
	APIKey      string `env:"API_KEY"`
	SenderName  string `env:"SENDER_NAME" envDefault:"OTT Trusted"`
	SenderEmail string `env:"SENDER_EMAIL" envDefault:"no-reply@otttrusted.online"`
}

type OTP struct {
	// Secret keys the HMAC over issued codes. Deliberately no default:
	// startup fails when it is unset.
	Secret        string        `env:"SECRET"`
	TTL           time.Duration `env:"TTL" envDefault:"5m"`
	MaxPerWindow  int           `env:"MAX_PER_WINDOW" envDefault:"5"`
	RequestWindow time.Duration `env:"REQUEST_WINDOW" envDefault:"1h"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the secrets the service cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.JWTSecret == "":
		return fmt.Errorf("JWT_SECRET is required")
	case c.DB.Password == "":
		return fmt.Errorf("DB_PASSWORD is required")
	case c.OTP.Secret == "":
		return fmt.Errorf("OTP_SECRET is required")
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DB.Host +
		" user=" + c.DB.User +
		" password=" + c.DB.Password +
		" dbname=" + c.DB.Name +
		" port=" + c.DB.Port +
		" sslmode=" + c.DB.SSLMode +
		" TimeZone=UTC"
}
