package repository

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedPicture = errors.New("picture must be a png or jpeg image")
	ErrPictureTooLarge    = errors.New("picture exceeds the upload size limit")
)

// Upload is a picture received with a create or edit request.
type Upload struct {
	Filename string
	Data     []byte
}

// PictureStore persists uploaded profile pictures.
type PictureStore interface {
	// Save stores the picture and returns its reference.
	Save(ctx context.Context, upload *Upload) (string, error)
	// Remove deletes a stored picture. References the store does not own are ignored.
	Remove(ctx context.Context, ref string) error
	// Owns reports whether ref names a picture written by Save.
	Owns(ref string) bool
}
