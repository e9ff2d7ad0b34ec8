package imagestore

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewName_Format(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d+-\d+\.jpg$`), NewName())
}

func TestDiskStore_SaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), strings.NewReader("jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.NotContains(t, ref, string(os.PathSeparator))

	data, err := os.ReadFile(filepath.Join(dir, ref))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), ref))
	_, err = os.Stat(filepath.Join(dir, ref))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStore_DeleteMissingIsNoop(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "nope.jpg"))
}

func TestDiskStore_DeleteStaysInsideDir(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(root, "keep.jpg")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	store, err := NewDiskStore(filepath.Join(root, "images"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "../keep.jpg"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
