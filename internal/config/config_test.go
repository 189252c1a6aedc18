package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, _, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpires)
	assert.Equal(t, 15*time.Second, cfg.StrapiTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.False(t, cfg.RazorpayEnabled())
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := Load("does-not-exist.env")
	assert.Error(t, err)
}

func TestLoad_CloudinaryNeedsURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE_BACKEND", "cloudinary")
	t.Setenv("CLOUDINARY_URL", "")

	_, _, err := Load("does-not-exist.env")
	assert.Error(t, err)
}

func TestSMTPEnabled_NeedsAllFour(t *testing.T) {
	cfg := &Config{SMTPHost: "smtp.gmail.com", SMTPPort: 587, SMTPUser: "u"}
	assert.False(t, cfg.SMTPEnabled())

	cfg.SMTPPass = "p"
	assert.True(t, cfg.SMTPEnabled())
}
