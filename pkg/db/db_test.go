package db

import (
	"path/filepath"
	"testing"

	"github.com/smallbiznis/farmstand/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(config.DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)
}

func TestDialectNames(t *testing.T) {
	for _, typ := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialect(config.DatabaseConfig{Type: typ, Path: "x.db"})
		require.NoError(t, err, typ)
		assert.Equal(t, typ, d.Name())
	}
}

func TestOpenSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "farmstand.db")

	conn, err := Open(config.DatabaseConfig{Type: "sqlite", Path: path, MaxOpenConn: 1}, zaptest.NewLogger(t))
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	assert.NoError(t, sqlDB.Close())
}
