package images

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("widget.png"))
	assert.True(t, Allowed("widget.JPEG"))
	assert.True(t, Allowed("archive.tar.gif"))
	assert.False(t, Allowed("widget"))
	assert.False(t, Allowed("widget.svg"))
	assert.False(t, Allowed("widget.png.exe"))
}

func TestSecureFilename(t *testing.T) {
	assert.Equal(t, "etc_passwd.png", SecureFilename("../../etc/passwd.png"))
	assert.Equal(t, "My_cool_movie.jpg", SecureFilename("My cool movie.jpg"))
	assert.Equal(t, "cafe.gif", SecureFilename("café.gif"))
	assert.Equal(t, "", SecureFilename("../.."))
}

func TestSaveStoresUnderUniqueName(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 1024)
	ctx := context.Background()

	first, err := store.Save(ctx, "../widget.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "../widget.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, "_widget.png"))
	assert.NotContains(t, first, "/")

	data, err := os.ReadFile(filepath.Join(dir, first))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveRejectsDisallowedType(t *testing.T) {
	store := NewStore(t.TempDir(), 1024)

	_, err := store.Save(context.Background(), "script.sh", strings.NewReader("#!/bin/sh"))
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 4)

	_, err := store.Save(context.Background(), "big.png", strings.NewReader("too many bytes"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 1024)

	stored, err := store.Save(context.Background(), "widget.gif", strings.NewReader("gif"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(stored))
	require.NoError(t, store.Remove(stored))
	assert.NoFileExists(t, filepath.Join(dir, stored))
}
