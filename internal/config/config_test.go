package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "stderr", cfg.Logger.OutputPath)
	assert.Equal(t, "json", cfg.Export.Format)
	assert.Empty(t, cfg.Export.Output)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chartctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logger:
  level: info
  format: json
export:
  format: yaml
  output: out.yaml
`), 0o644))

	t.Setenv("CHARTCTL_LOGGER_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "json", "")
	flags.String("log-level", "warn", "")
	require.NoError(t, flags.Parse([]string{"--format", "dot"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "dot", cfg.Export.Format, "set flag beats file")
	assert.Equal(t, "error", cfg.Logger.Level, "environment beats file and unset flag")
	assert.Equal(t, "json", cfg.Logger.Format, "file beats default")
	assert.Equal(t, "out.yaml", cfg.Export.Output)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CHARTCTL_EXPORT_FORMAT", "toml")
	_, err := Load("", nil)
	assert.ErrorContains(t, err, "export.format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoggerConfig_Logging(t *testing.T) {
	lc := LoggerConfig{Level: "debug", OutputPath: "stdout", Format: "json"}
	got := lc.Logging()
	assert.Equal(t, "debug", got.Level)
	assert.Equal(t, "stdout", got.OutputPath)
	assert.Equal(t, "json", got.Format)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHARTCTL_EXPORT_FORMAT=yaml\nCHARTCTL_LOGGER_LEVEL=info\n"), 0o644))
	t.Setenv("CHARTCTL_LOGGER_LEVEL", "error")
	t.Cleanup(func() { os.Unsetenv("CHARTCTL_EXPORT_FORMAT") })

	require.NoError(t, LoadEnvFile(path))
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Export.Format)
	assert.Equal(t, "error", cfg.Logger.Level, "existing environment is not overridden")
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "none.env")))
	assert.NoError(t, LoadEnvFile(""))
}
