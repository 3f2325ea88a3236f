package usecase

import (
	"employee-admin/internal/employee/domain/repository"
	"employee-admin/internal/shared/validation"
)

// CreateEmployeeRequest carries the fields of a new employee. ProfilePic is an
// optional string reference; Upload takes precedence when both are set.
type CreateEmployeeRequest struct {
	FullName    string `json:"fullName" form:"fullName" validate:"min=3"`
	Email       string `json:"email" form:"email" validate:"email"`
	Mobile      string `json:"mobile" form:"mobile" validate:"mobile"`
	Designation string `json:"designation" form:"designation" validate:"required"`
	Gender      string `json:"gender" form:"gender" validate:"oneof=male female"`
	Course      string `json:"course" form:"course" validate:"required"`
	Password    string `json:"password" form:"password" validate:"min=6"`
	ProfilePic  string `json:"profilePic" form:"profilePic" validate:"omitempty,fileext=png jpg"`

	Upload *repository.Upload `json:"-" form:"-" validate:"-"`
}

func (r *CreateEmployeeRequest) normalize() {
	validation.TrimSpace(&r.FullName, &r.Email, &r.Mobile, &r.Designation, &r.Course, &r.ProfilePic)
}

// EditEmployeeRequest carries a partial update. Nil fields are left unchanged
// and are not validated. Password is accepted for validation only; it is never
// written. An empty ProfilePic keeps the current picture.
type EditEmployeeRequest struct {
	FullName    *string `json:"fullName" form:"fullName" validate:"omitnil,min=3"`
	Email       *string `json:"email" form:"email" validate:"omitnil,email"`
	Mobile      *string `json:"mobile" form:"mobile" validate:"omitnil,mobile"`
	Designation *string `json:"designation" form:"designation" validate:"omitnil,min=1"`
	Gender      *string `json:"gender" form:"gender" validate:"omitnil,oneof=male female"`
	Course      *string `json:"course" form:"course" validate:"omitnil,min=1"`
	Password    *string `json:"password" form:"password" validate:"omitnil,min=6"`
	ProfilePic  *string `json:"profilePic" form:"profilePic" validate:"omitnil,fileext=png jpg"`

	Upload *repository.Upload `json:"-" form:"-" validate:"-"`
}

func (r *EditEmployeeRequest) normalize() {
	validation.TrimSpace(r.FullName, r.Email, r.Mobile, r.Designation, r.Course, r.ProfilePic)
	if r.ProfilePic != nil && *r.ProfilePic == "" {
		r.ProfilePic = nil
	}
}

var employeeSchema = validation.Schema{
	{Name: "fullName", Message: "Name must be at least 3 characters long"},
	{Name: "gender", Message: "Gender required"},
	{Name: "course", Message: "Course is required"},
	{Name: "password", Message: "Password must be at least 6 characters long", Sensitive: true},
	{Name: "email", Message: "Invalid email address"},
	{Name: "mobile", Message: "Invalid mobile number"},
	{Name: "designation", Message: "Designation is required"},
	{Name: "profilePic", Message: "Profile picture must be in PNG or JPG format"},
}
