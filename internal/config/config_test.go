package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("PRODUCTS_FORMAT", "")
	t.Setenv("ORDER_STRICT_TRANSITIONS", "")

	cfg := Load()
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, ProductsFormatJSON, cfg.Store.ProductsFormat)
	assert.False(t, cfg.Orders.StrictTransitions)
	assert.Equal(t, "Local", cfg.Analytics.Timezone)
}

func TestLoadNormalizesDrivers(t *testing.T) {
	t.Setenv("STORE_DRIVER", "DB")
	t.Setenv("PRODUCTS_FORMAT", "md")
	t.Setenv("ORDER_STRICT_TRANSITIONS", "yes")

	cfg := Load()
	assert.Equal(t, StoreDriverDatabase, cfg.Store.Driver)
	assert.Equal(t, ProductsFormatMarkdown, cfg.Store.ProductsFormat)
	assert.True(t, cfg.Orders.StrictTransitions)
}

func TestUploadPolicyDefaultsWhenFileMissing(t *testing.T) {
	cfg := Config{Upload: UploadConfig{PolicyPath: filepath.Join(t.TempDir(), "missing.yml")}}

	holder, err := NewUploadPolicyHolder(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	policy := holder.Get()
	assert.Equal(t, defaultMaxUploadBytes, policy.MaxBytes)
	assert.True(t, policy.Allows("image/png"))
	assert.False(t, policy.Allows("application/pdf"))
}

func TestUploadPolicyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.yml")
	body := "upload:\n  allowedTypes: [\"image/png\"]\n  maxBytes: 1024\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	holder, err := NewUploadPolicyHolder(Config{Upload: UploadConfig{PolicyPath: path}}, zaptest.NewLogger(t))
	require.NoError(t, err)

	policy := holder.Get()
	assert.Equal(t, int64(1024), policy.MaxBytes)
	assert.True(t, policy.Allows("IMAGE/PNG"))
	assert.False(t, policy.Allows("image/jpeg"))
}

func TestUploadPolicyRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.yml")
	require.NoError(t, os.WriteFile(path, []byte("upload:\n  maxBytes: -1\n"), 0o644))

	_, err := NewUploadPolicyHolder(Config{Upload: UploadConfig{PolicyPath: path}}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
