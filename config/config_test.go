package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "PORT", "LOG_LEVEL", "STORE_DRIVER", "MONGO_URI", "MONGO_DB",
	"JWT_SECRET_KEY", "JWT_EXPIRATION", "BCRYPT_COST", "CORS_ORIGINS",
	"UPLOAD_DIR", "MAX_AVATAR_BYTES", "MAX_BODY_BYTES", "REDIS_URL",
	"LOGIN_RATE_LIMIT", "LOGIN_RATE_WINDOW", "SHUTDOWN_TIMEOUT", "TRUSTED_PROXIES",
}

// clearEnv blanks every variable the config reads; blank counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, developmentSecret, cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, int64(5<<20), cfg.MaxAvatarBytes)
	assert.Equal(t, int64(6<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 15*time.Minute, cfg.LoginRateWindow)
	assert.Equal(t, "keepnotes", cfg.Database.DatabaseName)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("JWT_EXPIRATION", "3600")
	t.Setenv("CORS_ORIGINS", "https://notes.example.com")

	cfg := FromEnv()

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
	assert.Equal(t, []string{"https://notes.example.com"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg := FromEnv()
	assert.Empty(t, cfg.JWTSecret)
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET_KEY")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("BCRYPT_COST", "99")
	t.Setenv("MAX_AVATAR_BYTES", "-1")

	err := FromEnv().Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "STORE_DRIVER")
	assert.ErrorContains(t, err, "BCRYPT_COST")
	assert.ErrorContains(t, err, "MAX_AVATAR_BYTES")
}

func TestTrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")

	cfg := FromEnv()
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
	assert.NoError(t, cfg.Validate())

	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,loadbalancer")
	assert.ErrorContains(t, FromEnv().Validate(), `TRUSTED_PROXIES entry "loadbalancer"`)
}

func TestLoadReadsDotenvWithoutOverriding(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	// godotenv only fills variables that are absent, not blank.
	require.NoError(t, os.Unsetenv("STORE_DRIVER"))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=6000\nSTORE_DRIVER=memory\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
