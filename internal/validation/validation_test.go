package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/portfolio-be/internal/apperr"
)

type signup struct {
	Email  string    `json:"email" validate:"required,email,max=255"`
	Name   string    `json:"firstName" validate:"max=5"`
	Avatar string    `json:"avatar" validate:"omitempty,url,max=500"`
	Title  *string   `json:"title" validate:"omitnil,min=1"`
	Tags   *[]string `json:"tags" validate:"omitnil,max=2,dive,max=3"`
	Status string    `json:"status" validate:"omitempty,oneof=draft published"`
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestStruct_Valid(t *testing.T) {
	title := "ok"
	assert.NoError(t, Struct(signup{Email: "a@example.com", Title: &title}))
	assert.NoError(t, Struct(signup{Email: "a@example.com", Avatar: "https://example.com/a.png", Status: "draft"}))
}

func TestStruct_ReportsEveryField(t *testing.T) {
	empty := ""
	tags := []string{"go", "toolong"}
	err := Struct(signup{
		Email:  "not-an-email",
		Name:   "Bartholomew",
		Avatar: "nope",
		Title:  &empty,
		Tags:   &tags,
		Status: "archived",
	})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)

	fields := fieldsOf(t, err)
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be at most 5 characters", fields["firstName"])
	assert.Equal(t, "must be a valid URL", fields["avatar"])
	assert.Equal(t, "must be at least 1 characters", fields["title"])
	assert.Equal(t, "must be at most 3 characters", fields["tags[1]"])
	assert.Equal(t, "must be one of: draft, published", fields["status"])
}

func TestStruct_RequiredAndSliceLength(t *testing.T) {
	tags := []string{"a", "b", "c"}
	fields := fieldsOf(t, Struct(signup{Tags: &tags}))
	assert.Equal(t, "is required", fields["email"])
	assert.Equal(t, "must have at most 2 items", fields["tags"])
}
