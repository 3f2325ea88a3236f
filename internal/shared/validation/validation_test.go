package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVar(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		tag   string
		want  bool
	}{
		{"min length ok", "abc", "min=3", true},
		{"min length short", "ab", "min=3", false},
		{"min length counts runes", "éèê", "min=3", true},
		{"one of male", "male", "oneof=male female", true},
		{"one of other", "other", "oneof=male female", false},
		{"one of is case sensitive", "Male", "oneof=male female", false},
		{"email ok", "jane.doe@example.com", "email", true},
		{"email plus tag", "jane+hr@example.co.in", "email", true},
		{"email missing at", "jane.example.com", "email", false},
		{"email display name", "Jane <jane@example.com>", "email", false},
		{"mobile ten digits", "9876543210", "mobile", true},
		{"mobile international", "+91 98765-43210", "mobile", true},
		{"mobile too short", "123", "mobile", false},
		{"mobile letters", "98765abcde", "mobile", false},
		{"ext png", "avatar.PNG", "fileext=png jpg", true},
		{"ext jpg url", "https://cdn.example.com/a/b.jpg?v=2", "fileext=png jpg", true},
		{"ext gif", "avatar.gif", "fileext=png jpg", false},
		{"ext none", "avatar", "fileext=png jpg", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Var(tc.value, tc.tag))
		})
	}
}

type signup struct {
	UserName string  `json:"userName" validate:"min=3"`
	Email    string  `json:"email" validate:"email"`
	Password string  `json:"password" validate:"min=6"`
	Avatar   *string `json:"avatar" validate:"omitnil,fileext=png"`
	Nickname string  `json:"nickname" validate:"omitempty,min=2"`
}

var signupSchema = Schema{
	{Name: "userName", Message: "Username must be at least 3 characters long"},
	{Name: "email", Message: "Invalid email address"},
	{Name: "password", Message: "Password is too short", Sensitive: true},
	{Name: "avatar", Message: "bad extension"},
}

func ptr(s string) *string { return &s }

func TestSchema_ValidateReportsInSchemaOrder(t *testing.T) {
	errs := signupSchema.Validate(&signup{UserName: "ab", Email: "nope", Password: "12345"})
	require.NotNil(t, errs)
	assert.Equal(t, []string{"userName", "email", "password"}, errs.Fields())
	assert.Equal(t, "Username must be at least 3 characters long", errs.Errors[0].Message)
	assert.Equal(t, "ab", errs.Errors[0].Value)
	assert.Equal(t, "nope", errs.Errors[1].Value)
}

func TestSchema_SensitiveValueIsNotEchoed(t *testing.T) {
	errs := signupSchema.Validate(signup{UserName: "alice", Email: "a@b.io", Password: "abc"})
	require.NotNil(t, errs)
	assert.Equal(t, []string{"password"}, errs.Fields())
	assert.Nil(t, errs.Errors[0].Value)
}

func TestSchema_NilPointerSkipped(t *testing.T) {
	valid := signup{UserName: "alice", Email: "a@b.io", Password: "secret1"}
	assert.Nil(t, signupSchema.Validate(valid))

	valid.Avatar = ptr("me.png")
	assert.Nil(t, signupSchema.Validate(valid))

	valid.Avatar = ptr("me.jpg")
	errs := signupSchema.Validate(valid)
	require.NotNil(t, errs)
	assert.Equal(t, []string{"avatar"}, errs.Fields())
}

func TestSchema_FieldMissingFromSchemaGetsGenericMessage(t *testing.T) {
	errs := signupSchema.Validate(signup{UserName: "alice", Email: "a@b.io", Password: "secret1", Nickname: "x"})
	require.NotNil(t, errs)
	assert.Equal(t, []string{"nickname"}, errs.Fields())
	assert.Equal(t, "nickname is invalid", errs.Errors[0].Message)
}

func TestSchema_NonStructIsRejected(t *testing.T) {
	errs := signupSchema.Validate("not a struct")
	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors())
}

func TestTrimSpace(t *testing.T) {
	a, b := "  x ", "y"
	var missing *string
	TrimSpace(&a, &b, missing)
	assert.Equal(t, "x", a)
	assert.Equal(t, "y", b)
}
