package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the API needs at boot. Optional integrations are
// enabled by the presence of their credentials.
type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	MongoURI    string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB     string        `env:"MONGODB_DATABASE" envDefault:"storefront"`
	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpires  time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
	CORSOrigins []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	FrontendURL string        `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	// Email
	AdminEmail   string `env:"ADMIN_EMAIL"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"Storefront <no-reply@localhost>"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`

	// Razorpay
	RazorpayKeyID         string `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string `env:"RAZORPAY_KEY_SECRET"`
	RazorpayWebhookSecret string `env:"RAZORPAY_WEBHOOK_SECRET"`
	Currency              string `env:"CURRENCY" envDefault:"INR"`

	// Strapi
	StrapiURL           string        `env:"STRAPI_URL"`
	StrapiAPIToken      string        `env:"STRAPI_API_TOKEN"`
	StrapiTimeout       time.Duration `env:"STRAPI_TIMEOUT" envDefault:"15s"`
	StrapiWebhookSecret string        `env:"STRAPI_WEBHOOK_SECRET"`

	// Uploads
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	CloudinaryURL  string `env:"CLOUDINARY_URL"`

	// Extra hosts the compositor may fetch product and design images from
	ImageSourceHosts []string `env:"IMAGE_SOURCE_HOSTS" envSeparator:","`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// Load reads .env (when present) into the process environment and parses
// the result. The returned bool reports whether a .env file was found.
func Load(files ...string) (*Config, bool, error) {
	found := godotenv.Load(files...) == nil

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, found, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, found, err
	}
	return cfg, found, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case "local":
	case "cloudinary":
		if c.CloudinaryURL == "" {
			return fmt.Errorf("CLOUDINARY_URL is required when STORAGE_BACKEND=cloudinary")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	c.PublicBaseURL = strings.TrimRight(c.PublicBaseURL, "/")
	c.StrapiURL = strings.TrimRight(c.StrapiURL, "/")
	return nil
}

// RazorpayEnabled reports whether gateway credentials are present.
func (c *Config) RazorpayEnabled() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

// SMTPEnabled reports whether all four SMTP credentials are present.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPPort != 0 && c.SMTPUser != "" && c.SMTPPass != ""
}
