package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is an account allowed to manage employees.
type Admin struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserName     string             `json:"userName" bson:"userName"`
	PasswordHash string             `json:"-" bson:"password,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Mobile       string             `json:"mobile" bson:"mobile"`
	Designation  string             `json:"designation" bson:"designation"`
	IsAdmin      bool               `json:"isAdmin" bson:"isAdmin"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Public returns a copy safe to hand to clients.
func (a *Admin) Public() *Admin {
	if a == nil {
		return nil
	}
	cp := *a
	cp.PasswordHash = ""
	return &cp
}
