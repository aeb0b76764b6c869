package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv_LocalWinsOverBase(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PB_TEST_A=base\nPB_TEST_B=base\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("PB_TEST_A=local\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PB_TEST_A")
		os.Unsetenv("PB_TEST_B")
	})

	loaded := LoadDotEnv(dir)

	assert.Len(t, loaded, 2)
	assert.Equal(t, "local", os.Getenv("PB_TEST_A"))
	assert.Equal(t, "base", os.Getenv("PB_TEST_B"))
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	assert.Empty(t, LoadDotEnv(t.TempDir()))
}

func TestPath(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	assert.Equal(t, filepath.Join("configs", "config.production.yaml"), Path())
}
