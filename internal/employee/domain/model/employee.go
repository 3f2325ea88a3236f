package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Employee is a record managed by admins.
type Employee struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UniqueID     string             `json:"uniqueId" bson:"uniqueId"`
	FullName     string             `json:"fullName" bson:"fullName"`
	Email        string             `json:"email" bson:"email"`
	Mobile       string             `json:"mobile" bson:"mobile"`
	Designation  string             `json:"designation" bson:"designation"`
	Gender       string             `json:"gender" bson:"gender"`
	Course       string             `json:"course" bson:"course"`
	ProfilePic   string             `json:"profilePic" bson:"profilePic"`
	PasswordHash string             `json:"-" bson:"password,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Public returns a copy without the password hash.
func (e *Employee) Public() *Employee {
	if e == nil {
		return nil
	}
	cp := *e
	cp.PasswordHash = ""
	return &cp
}

// EmployeePatch lists the fields an edit replaces. Nil fields keep their
// stored value.
type EmployeePatch struct {
	FullName    *string
	Email       *string
	Mobile      *string
	Designation *string
	Gender      *string
	Course      *string
	ProfilePic  *string
	UpdatedAt   time.Time
}

// Set returns the $set document for the patch.
func (p EmployeePatch) Set() map[string]interface{} {
	set := map[string]interface{}{"updatedAt": p.UpdatedAt}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	put("fullName", p.FullName)
	put("email", p.Email)
	put("mobile", p.Mobile)
	put("designation", p.Designation)
	put("gender", p.Gender)
	put("course", p.Course)
	put("profilePic", p.ProfilePic)
	return set
}

// Apply returns a copy of e with the patch applied.
func (p EmployeePatch) Apply(e *Employee) *Employee {
	cp := *e
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&cp.FullName, p.FullName)
	apply(&cp.Email, p.Email)
	apply(&cp.Mobile, p.Mobile)
	apply(&cp.Designation, p.Designation)
	apply(&cp.Gender, p.Gender)
	apply(&cp.Course, p.Course)
	apply(&cp.ProfilePic, p.ProfilePic)
	cp.UpdatedAt = p.UpdatedAt
	return &cp
}

// ListQuery filters and pages the employee list. Limit 0 returns everything.
type ListQuery struct {
	Search string
	Page   int
	Limit  int
}

// ListResult is one page of employees plus the total number of matches.
type ListResult struct {
	Employees []*Employee `json:"employees"`
	Total     int64       `json:"total"`
}
