package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/museum-backend/internal/config"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func newLocalStorage(t *testing.T) *StorageService {
	t.Helper()

	storage, err := NewStorageService(&config.Config{
		Storage: config.StorageConfig{
			Backend:       "local",
			LocalPath:     t.TempDir(),
			PublicBaseURL: "/media/",
			MaxPhotoSize:  1,
			MaxDocSize:    1,
		},
	})
	require.NoError(t, err)
	storage.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
	return storage
}

func TestSavePhotoLocally(t *testing.T) {
	storage := newLocalStorage(t)

	result, err := storage.Save(bytes.NewReader(pngHeader), "Front.PNG", "", storage.PhotoUploadOptions())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "exhibit_photos/2024/03/09/20240309_"), result.Key)
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "/media/"+result.Key, result.URL)
	assert.Equal(t, "image/png", result.MimeType)

	stored := filepath.Join(storage.config.Storage.LocalPath, filepath.FromSlash(result.Key))
	content, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, content)

	require.NoError(t, storage.DeleteFile(result.Key))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error
	assert.NoError(t, storage.DeleteFile(result.Key))
}

func TestSaveRejectsInvalidUploads(t *testing.T) {
	storage := newLocalStorage(t)

	_, err := storage.Save(strings.NewReader("MZ"), "virus.exe", "", storage.DocumentUploadOptions())
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	_, err = storage.Save(strings.NewReader("plain text"), "photo.jpg", "", storage.PhotoUploadOptions())
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	big := bytes.Repeat([]byte{'a'}, 1024*1024+1)
	_, err = storage.Save(bytes.NewReader(big), "notes.txt", "", storage.DocumentUploadOptions())
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDeleteFileStaysInsideMediaRoot(t *testing.T) {
	storage := newLocalStorage(t)

	outside := filepath.Join(filepath.Dir(storage.config.Storage.LocalPath), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	require.NoError(t, storage.DeleteFile("../keep.txt"))
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestURL(t *testing.T) {
	storage := newLocalStorage(t)

	assert.Equal(t, "", storage.URL(""))
	assert.Equal(t, "https://cdn.example/a.jpg", storage.URL("https://cdn.example/a.jpg"))
	assert.Equal(t, "/media/exhibit_docs/a.pdf", storage.URL("/exhibit_docs/a.pdf"))
}

func TestIsValidImageType(t *testing.T) {
	assert.True(t, isValidImageType([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.True(t, isValidImageType(pngHeader))
	assert.True(t, isValidImageType([]byte("GIF89a......")))
	assert.True(t, isValidImageType([]byte("RIFF\x00\x00\x00\x00WEBP")))
	assert.False(t, isValidImageType([]byte("%PDF-1.7")))
}
