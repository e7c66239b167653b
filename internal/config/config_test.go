package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	for _, v := range []string{"XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_CACHE_HOME", "XDG_STATE_HOME"} {
		t.Setenv(v, filepath.Join(base, v))
	}
	t.Setenv("HOME", base)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return base
}

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "mediakit"}
	root.PersistentFlags().String("out-dir", "", "")
	root.PersistentFlags().Int("jobs", 2, "")
	root.PersistentFlags().String("ffmpeg", "", "")
	return root
}

func TestDefaults(t *testing.T) {
	isolate(t)
	require.NoError(t, Init(newRoot()))

	s := Load()
	assert.Equal(t, "warn", s.LogLevel)
	assert.True(t, s.History)
	assert.Equal(t, 2, s.Jobs)
	assert.Equal(t, "history.db", filepath.Base(s.HistoryDB))
	assert.False(t, s.DryRun)
}

func TestPrecedence(t *testing.T) {
	base := isolate(t)

	cfgDir := filepath.Join(base, "XDG_CONFIG_HOME", "mediakit")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"),
		[]byte("log_level: info\njobs: 3\nffmpeg_binary: /opt/ffmpeg\nhistory: false\n"), 0o644))
	t.Setenv("MEDIAKIT_JOBS", "5")

	root := newRoot()
	require.NoError(t, root.PersistentFlags().Set("ffmpeg", "/usr/local/bin/ffmpeg"))
	require.NoError(t, Init(root))

	s := Load()
	assert.Equal(t, "info", s.LogLevel, "config file beats default")
	assert.Equal(t, 5, s.Jobs, "env beats config file")
	assert.Equal(t, "/usr/local/bin/ffmpeg", s.FFmpegBinary, "flag beats config file")
	assert.False(t, s.History)
}
