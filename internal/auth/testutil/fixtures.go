package testutil

import (
	"time"

	"employee-admin/internal/auth/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plaintext password of fixture admins.
const DefaultPassword = "password123"

// AdminFixture provides test data for the Admin model
type AdminFixture struct{}

// NewAdminFixture creates a new AdminFixture instance
func NewAdminFixture() *AdminFixture {
	return &AdminFixture{}
}

// ValidAdmin returns an admin whose password is DefaultPassword.
func (f *AdminFixture) ValidAdmin() *model.Admin {
	return f.AdminWithPassword("alice", DefaultPassword)
}

// AdminWithPassword returns an admin with a specific username and password.
// Hashes use bcrypt.MinCost to keep tests fast.
func (f *AdminFixture) AdminWithPassword(userName, password string) *model.Admin {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	now := time.Now().UTC()
	return &model.Admin{
		ID:           primitive.NewObjectID(),
		UserName:     userName,
		PasswordHash: string(hashedPassword),
		Email:        userName + "@example.com",
		Mobile:       "9876543210",
		Designation:  "HR Manager",
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DemotedAdmin returns an account whose isAdmin flag is false.
func (f *AdminFixture) DemotedAdmin() *model.Admin {
	a := f.AdminWithPassword("mallory", DefaultPassword)
	a.IsAdmin = false
	return a
}
