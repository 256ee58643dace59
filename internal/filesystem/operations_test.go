package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"capture-0001.pgm", true},
		{"IMG_0001.CR2", true},
		{"frame.ppm", true},
		{"photo.JPG", true},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImageFile(tt.path))
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/shoots")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shoots"), got)

	got, err = ExpandPath("relative/dir")
	require.NoError(t, err)
	assert.Equal(t, "relative/dir", got)

	_, err = ExpandPath("")
	assert.Error(t, err)
}

func TestTempFileAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "session")

	f, err := CreateTempFileInDir(dir, "download")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.True(t, Exists(f.Name()))
	assert.Equal(t, ".", filepath.Base(f.Name())[:1], "temp files are hidden")

	require.NoError(t, SafeRemove(f.Name()))
	assert.False(t, Exists(f.Name()))
	assert.NoError(t, SafeRemove(f.Name()), "removing a missing file is not an error")
}
