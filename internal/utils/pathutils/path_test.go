package pathutils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAbsolutePath_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ToAbsolutePath("~/.local/state/artcrate")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "state", "artcrate"), got)
}

func TestToHomePathFormat_RoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	short, err := ToHomePathFormat(filepath.Join(home, "cache"))
	require.NoError(t, err)
	assert.Equal(t, "~/cache", short)

	other, err := ToHomePathFormat("/var/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/x", other)
}
