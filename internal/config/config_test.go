package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webui.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("WEBUI_LOG_LEVEL", "debug")
	t.Setenv("WEBUI_LOG_JSON", "true")
	t.Setenv("WEBUI_MAX_HTML_SIZE", "2048")
	t.Setenv("WEBUI_VISIT", "heading,link")
	t.Setenv("WEBUI_SORT_METHOD", "duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, int64(2048), cfg.MaxHTMLSize)
	assert.Equal(t, "heading,link", cfg.Visit)
	assert.Equal(t, "duration", cfg.SortMethod)
	assert.Equal(t, 120, cfg.TableWidth)
}

func TestFileThenEnvironment(t *testing.T) {
	path := writeFile(t, `
log_level = "warn"
sanitize = true
walk_limit = 5
table_width = 80
sort_method = "desc"
`)
	t.Setenv("WEBUI_CONFIG", path)
	t.Setenv("WEBUI_TABLE_WIDTH", "100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Sanitize)
	assert.Equal(t, 5, cfg.WalkLimit)
	assert.Equal(t, "desc", cfg.SortMethod)
	assert.Equal(t, 100, cfg.TableWidth)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxHTMLSize)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, `bogus_key = 1`))
	assert.Error(t, err)

	_, err = LoadFile(writeFile(t, `log_level = "loud"`))
	assert.True(t, errors.Is(err, ErrInvalid))

	_, err = LoadFile(writeFile(t, `walk_limit = -1`))
	assert.True(t, errors.Is(err, ErrInvalid))

	t.Setenv("WEBUI_TABLE_WIDTH", "wide")
	_, err = LoadFile("")
	assert.Error(t, err)
}
