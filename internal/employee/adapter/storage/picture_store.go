package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"employee-admin/internal/employee/domain/repository"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

const jpegQuality = 90

var ownedRef = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(png|jpg)$`)

// LocalPictureStore keeps profile pictures as files in one directory. Every
// upload is re-encoded as a square of at most maxDim pixels.
type LocalPictureStore struct {
	dir      string
	maxBytes int64
	maxDim   int
}

// NewLocalPictureStore creates the directory if needed.
func NewLocalPictureStore(dir string, maxBytes int64, maxDim int) (*LocalPictureStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalPictureStore{dir: dir, maxBytes: maxBytes, maxDim: maxDim}, nil
}

// Dir returns the directory served as static files.
func (s *LocalPictureStore) Dir() string {
	return s.dir
}

// Save validates, normalizes and writes the picture, returning its filename.
// Content type is sniffed from the bytes; the client supplied name is ignored.
func (s *LocalPictureStore) Save(ctx context.Context, upload *repository.Upload) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", repository.ErrUnsupportedPicture
	}
	if int64(len(upload.Data)) > s.maxBytes {
		return "", repository.ErrPictureTooLarge
	}

	var ext string
	switch http.DetectContentType(upload.Data) {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	default:
		return "", repository.ErrUnsupportedPicture
	}

	img, _, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return "", repository.ErrUnsupportedPicture
	}
	normalized, err := s.normalize(img)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if ext == ".png" {
		err = png.Encode(&out, normalized)
	} else {
		err = jpeg.Encode(&out, normalized, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode picture: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := s.writeFile(name, out.Bytes()); err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes a picture written by Save. URLs, placeholders and client
// supplied references are left alone.
func (s *LocalPictureStore) Remove(ctx context.Context, ref string) error {
	if !s.Owns(ref) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, ref)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove picture: %w", err)
	}
	return nil
}

// Owns reports whether ref has the shape of a name minted by Save.
func (s *LocalPictureStore) Owns(ref string) bool {
	return ownedRef.MatchString(ref)
}

// normalize center crops to a square and scales it down to maxDim.
func (s *LocalPictureStore) normalize(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, repository.ErrUnsupportedPicture
	}

	side := width
	if height < side {
		side = height
	}
	crop := image.Rect(0, 0, side, side).Add(image.Point{
		X: bounds.Min.X + (width-side)/2,
		Y: bounds.Min.Y + (height-side)/2,
	})

	target := side
	if target > s.maxDim {
		target = s.maxDim
	}
	dst := image.NewRGBA(image.Rect(0, 0, target, target))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, xdraw.Src, nil)
	return dst, nil
}

// writeFile writes through a temp file so readers never see a partial picture.
func (s *LocalPictureStore) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create picture file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write picture: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write picture: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write picture: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to store picture: %w", err)
	}
	return nil
}
