package repository

import (
	"context"
	"errors"

	"employee-admin/internal/auth/domain/model"
)

var (
	// ErrAdminNotFound is returned by lookups that match no admin.
	ErrAdminNotFound = errors.New("admin not found")
	// ErrDuplicateAdmin is returned when userName or email is already taken.
	ErrDuplicateAdmin = errors.New("admin already exists")
)

// AdminRepository defines the interface for admin data operations
type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	// GetAdminByUserName includes the password hash.
	GetAdminByUserName(ctx context.Context, userName string) (*model.Admin, error)
	// GetAdminByID never includes the password hash.
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
	CountAdmins(ctx context.Context) (int64, error)
}

// PasswordHasher hashes and verifies admin passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
