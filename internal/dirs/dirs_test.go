package dirs

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXDGOverrides(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG variables only apply on linux")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	cfg, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "config", "mediakit"), cfg)

	db, err := HistoryDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "state", "mediakit", "history.db"), db)
}

func TestEnsureRejectsEmpty(t *testing.T) {
	assert.Error(t, Ensure(""))
}
