package repository

import (
	"context"
	"errors"

	"employee-admin/internal/employee/domain/model"
)

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrDuplicateEmail    = errors.New("employee email already exists")
	ErrDuplicateUniqueID = errors.New("employee unique id already exists")
)

// EmployeeRepository defines the interface for employee data operations.
// Returned records never carry the password hash.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	List(ctx context.Context, query model.ListQuery) ([]*model.Employee, int64, error)
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	// Update applies patch atomically and returns the record as it was before.
	Update(ctx context.Context, id string, patch model.EmployeePatch) (*model.Employee, error)
	// Delete removes the record and returns it.
	Delete(ctx context.Context, id string) (*model.Employee, error)
}

// UniqueIDAllocator hands out human readable employee ids that are never reused.
type UniqueIDAllocator interface {
	NextUniqueID(ctx context.Context) (string, error)
}

// PasswordHasher hashes employee passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}
