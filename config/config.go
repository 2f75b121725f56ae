// Package config loads runtime settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"keepnotes/utils"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	// Only accepted outside production.
	developmentSecret = "keepnotes-development-secret"
)

type AppConfig struct {
	Environment string
	Port        string
	LogLevel    string
	StoreDriver string
	Database    DatabaseConfig

	JWTSecret     string
	JWTExpiration time.Duration
	BcryptCost    int

	CORSOrigins []string
	// Proxies whose X-Forwarded-For is believed. Empty trusts none, so the
	// peer address is the client IP.
	TrustedProxies []string
	UploadDir      string
	MaxAvatarBytes int64
	MaxBodyBytes   int64

	RedisURL        string
	LoginRateLimit  int
	LoginRateWindow time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the dotenv files (a missing file is fine) and then the process
// environment. Variables already set in the environment win.
func Load(files ...string) (AppConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(), nil
}

// FromEnv builds the configuration without touching .env files.
func FromEnv() AppConfig {
	env := strings.ToLower(utils.GetEnvAsString("APP_ENV", "development"))
	maxAvatar := utils.GetEnvAsInt64("MAX_AVATAR_BYTES", 5<<20)

	cfg := AppConfig{
		Environment: env,
		Port:        utils.GetEnvAsString("PORT", "5000"),
		LogLevel:    utils.GetEnvAsString("LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(utils.GetEnvAsString("STORE_DRIVER", StoreMongo)),
		Database:    LoadDatabaseConfig(),

		JWTSecret:     utils.GetEnvAsString("JWT_SECRET_KEY", ""),
		JWTExpiration: utils.GetEnvAsDuration("JWT_EXPIRATION", 7*24*time.Hour),
		BcryptCost:    utils.GetEnvAsInt("BCRYPT_COST", 12),

		CORSOrigins: utils.GetEnvAsList("CORS_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:5174",
			"http://localhost:5175",
			"http://localhost:3000",
		}),
		TrustedProxies: utils.GetEnvAsList("TRUSTED_PROXIES", nil),
		UploadDir:      utils.GetEnvAsString("UPLOAD_DIR", "uploads"),
		MaxAvatarBytes: maxAvatar,
		MaxBodyBytes:   utils.GetEnvAsInt64("MAX_BODY_BYTES", maxAvatar+1<<20),

		RedisURL:        utils.GetEnvAsString("REDIS_URL", ""),
		LoginRateLimit:  utils.GetEnvAsInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: utils.GetEnvAsDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		ShutdownTimeout: utils.GetEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = developmentSecret
	}
	return cfg
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func (c AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c AppConfig) Addr() string {
	return ":" + c.Port
}

// Validate reports every problem at once.
func (c AppConfig) Validate() error {
	var problems []error

	if c.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET_KEY is required"))
	} else if c.IsProduction() && c.JWTSecret == developmentSecret {
		problems = append(problems, errors.New("JWT_SECRET_KEY must be set in production"))
	}
	if c.JWTExpiration <= 0 {
		problems = append(problems, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		problems = append(problems, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.Database.URI == "" {
			problems = append(problems, errors.New("MONGO_URI is required for the mongo store"))
		}
	case StoreMemory:
	default:
		problems = append(problems, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.MaxAvatarBytes <= 0 {
		problems = append(problems, errors.New("MAX_AVATAR_BYTES must be positive"))
	}
	if c.LoginRateLimit < 0 {
		problems = append(problems, errors.New("LOGIN_RATE_LIMIT cannot be negative"))
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				problems = append(problems, fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy))
			}
		}
	}

	return errors.Join(problems...)
}
