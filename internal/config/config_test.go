package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/synthlab/internal/parser"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.False(t, c.MockMetrics)
	assert.False(t, c.Strict)
	assert.Equal(t, "last-wins", c.DuplicateHeaders)
	assert.Equal(t, "auto", c.Delimiter)
	assert.Equal(t, 5, c.SampleRows)
	assert.Equal(t, 50, c.MaxUploadMB)
	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "console", c.LogFormat)
	assert.Equal(t, 4, c.BatchConcurrency)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	opt, err := Default().ParserOptions()
	require.NoError(t, err)
	assert.Equal(t, rune(0), opt.Comma)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Set("strict", "true"))
	require.NoError(t, c.Set("delimiter", ";"))
	require.NoError(t, c.Set("duplicate_headers", "error"))
	require.NoError(t, Save(c, path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.True(t, back.Strict)
	assert.Equal(t, ";", back.Delimiter)
	assert.Equal(t, "reject", back.DuplicateHeaders)
}

func TestSaveDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	require.NoError(t, err)
	c.SampleRows = 9
	require.NoError(t, Save(c, ""))
	_, err = os.Stat(filepath.Join(home, ".synthlab", "config.yaml"))
	require.NoError(t, err)

	back, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, back.SampleRows)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rows: 3\nlisten_addr: \":9000\"\n"), 0o644))
	t.Setenv("SYNTHLAB_SAMPLE_ROWS", "7")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, c.SampleRows)
	assert.Equal(t, ":9000", c.ListenAddr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("duplicate_headers: first-wins\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSetValidation(t *testing.T) {
	c := Default()
	assert.Error(t, c.Set("nope", "1"))
	assert.Error(t, c.Set("strict", "maybe"))
	assert.Error(t, c.Set("batch_concurrency", "0"))
	assert.Error(t, c.Set("delimiter", "ab"))
	assert.Error(t, c.Set("log_format", "xml"))
	assert.Equal(t, 4, c.BatchConcurrency, "failed Set must not modify")

	require.NoError(t, c.Set("log_level", "DEBUG"))
	assert.Equal(t, "debug", c.LogLevel)
	v, err := c.Get("log_level")
	require.NoError(t, err)
	assert.Equal(t, "debug", v)
	for _, k := range Keys {
		_, err := c.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestParserOptions(t *testing.T) {
	c := &Global{Delimiter: "tab", DuplicateHeaders: "reject"}
	opt, err := c.ParserOptions()
	require.NoError(t, err)
	assert.Equal(t, '\t', opt.Comma)
	assert.Equal(t, parser.DuplicatesReject, opt.Duplicates)

	for in, want := range map[string]rune{"": 0, "auto": 0, `\t`: '\t', ";": ';', "|": '|'} {
		got, err := ParseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err = ParseDelimiter(`"`)
	assert.Error(t, err)
}
