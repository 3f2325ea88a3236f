// Package validation checks tagged request structs with go-playground/validator
// and reports every violated field with a client facing message.
package validation

import (
	"errors"
	"path"
	"reflect"
	"regexp"
	"strings"

	apperrors "employee-admin/internal/shared/errors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("mobile", mobile); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("fileext", fileExtension); err != nil {
		panic(err)
	}
	return v
}

// Field names a request field and the message reported when any of its rules fail.
type Field struct {
	Name    string
	Message string
	// Sensitive values are never echoed back in the violation.
	Sensitive bool
}

// Schema lists fields in the order their violations are reported.
type Schema []Field

// Validate runs the validate tags of req, a struct or pointer to struct. Each
// failing field is reported once, in schema order; fields missing from the
// schema follow with a generic message.
func (s Schema) Validate(req interface{}) *apperrors.ValidationErrors {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	errs := apperrors.NewValidationErrors()
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.Add("", "Invalid request", nil)
	}

	failed := make(map[string]validator.FieldError, len(fieldErrs))
	order := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := failed[fe.Field()]; !seen {
			failed[fe.Field()] = fe
			order = append(order, fe.Field())
		}
	}

	for _, f := range s {
		fe, ok := failed[f.Name]
		if !ok {
			continue
		}
		delete(failed, f.Name)
		if f.Sensitive {
			errs.Add(f.Name, f.Message, nil)
		} else {
			errs.Add(f.Name, f.Message, fe.Value())
		}
	}
	for _, name := range order {
		if fe, ok := failed[name]; ok {
			errs.Add(name, name+" is invalid", fe.Value())
		}
	}
	return errs
}

// Var checks a single value against a tag list, e.g. "email" or "min=3".
func Var(value interface{}, tag string) bool {
	return validate.Var(value, tag) == nil
}

var (
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	mobileRegex     = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// mobile accepts 10 to 15 digits, optionally prefixed by '+'. Spaces, dashes,
// dots and parentheses are tolerated as separators.
func mobile(fl validator.FieldLevel) bool {
	return mobileRegex.MatchString(phoneSeparators.Replace(fl.Field().String()))
}

// fileExtension accepts a path or URL whose extension is one of the space
// separated params, case-insensitive. Query strings and fragments are ignored.
func fileExtension(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if i := strings.IndexAny(v, "?#"); i >= 0 {
		v = v[:i]
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(v)), ".")
	if ext == "" {
		return false
	}
	for _, allowed := range strings.Fields(fl.Param()) {
		if ext == allowed {
			return true
		}
	}
	return false
}

// TrimSpace trims each non-nil string pointer in place. Requests call it
// before validating so length rules see the stored value.
func TrimSpace(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
