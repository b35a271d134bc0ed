package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charts_file: /tmp/x.json\ncharts_max: 5\nlog_level: debug\nprove: true\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/x.json", cfg.ChartsFile)
	require.Equal(t, 5, cfg.ChartsMax)
	require.True(t, cfg.Prove)
	require.Equal(t, "./keys", cfg.KeysDir)

	lvl, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, lvl)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charts_max: 0\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("charts_max: [\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}
