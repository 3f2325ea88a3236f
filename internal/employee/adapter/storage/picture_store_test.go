package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"employee-admin/internal/employee/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newStore(t *testing.T) *LocalPictureStore {
	t.Helper()
	s, err := NewLocalPictureStore(filepath.Join(t.TempDir(), "uploads"), 1<<20, 64)
	require.NoError(t, err)
	return s
}

func decodeStored(t *testing.T, s *LocalPictureStore, name string) (image.Image, string) {
	t.Helper()
	f, err := os.Open(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	defer f.Close()
	img, format, err := image.Decode(f)
	require.NoError(t, err)
	return img, format
}

func TestSave_PNGIsCroppedAndScaled(t *testing.T) {
	s := newStore(t)

	name, err := s.Save(context.Background(), &repository.Upload{Filename: "me.png", Data: encodePNG(t, solidImage(300, 200))})
	require.NoError(t, err)
	assert.Regexp(t, ownedRef, name)
	assert.Equal(t, ".png", filepath.Ext(name))

	img, format := decodeStored(t, s, name)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())
}

func TestSave_SmallJPEGIsNotUpscaled(t *testing.T) {
	s := newStore(t)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(20, 40), nil))

	name, err := s.Save(context.Background(), &repository.Upload{Filename: "photo.png", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(name), "format comes from content, not filename")

	img, format := decodeStored(t, s, name)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestSave_Rejects(t *testing.T) {
	s := newStore(t)
	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, solidImage(4, 4), nil))

	testCases := []struct {
		name   string
		upload *repository.Upload
		err    error
	}{
		{"nil", nil, repository.ErrUnsupportedPicture},
		{"empty", &repository.Upload{Filename: "a.png"}, repository.ErrUnsupportedPicture},
		{"gif", &repository.Upload{Filename: "a.png", Data: gifBuf.Bytes()}, repository.ErrUnsupportedPicture},
		{"text", &repository.Upload{Filename: "a.jpg", Data: []byte("definitely not an image")}, repository.ErrUnsupportedPicture},
		{"truncated png", &repository.Upload{Filename: "a.png", Data: encodePNG(t, solidImage(10, 10))[:40]}, repository.ErrUnsupportedPicture},
		{"too large", &repository.Upload{Filename: "a.png", Data: bytes.Repeat([]byte{0x89}, (1<<20)+1)}, repository.ErrPictureTooLarge},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Save(context.Background(), tc.upload)
			assert.ErrorIs(t, err, tc.err)
		})
	}

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads leave no files behind")
}

func TestRemove(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	name, err := s.Save(ctx, &repository.Upload{Data: encodePNG(t, solidImage(8, 8))})
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, name))
	_, err = os.Stat(filepath.Join(s.Dir(), name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(ctx, name), "removing twice is fine")
	assert.NoError(t, s.Remove(ctx, "https://example.com/pic.jpg"))
	assert.NoError(t, s.Remove(ctx, "../../etc/passwd"))

	keep := filepath.Join(s.Dir(), "avatar.png")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))
	require.NoError(t, s.Remove(ctx, "avatar.png"))
	_, err = os.Stat(keep)
	assert.NoError(t, err, "files the store did not write are kept")
}

func TestOwns(t *testing.T) {
	s := newStore(t)

	name, err := s.Save(context.Background(), &repository.Upload{Data: encodePNG(t, solidImage(8, 8))})
	require.NoError(t, err)

	assert.True(t, s.Owns(name))
	assert.False(t, s.Owns(""))
	assert.False(t, s.Owns("avatar.png"))
	assert.False(t, s.Owns("https://cdn.example.com/"+name))
	assert.False(t, s.Owns("../"+name))
}
