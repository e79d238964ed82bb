package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Go, Chi & SQLite!  ", "go-chi-sqlite"},
		{"already-a-slug", "already-a-slug"},
		{"snake_case__title", "snake-case-title"},
		{"--dashes--", "dashes"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestUserApply_LeavesOriginalAndHash(t *testing.T) {
	orig := User{ID: "u1", FirstName: "Alice", LastName: "L", PasswordHash: "digest", Roles: []string{"user"}}
	first := "Alicia"

	next := orig.Apply(UserPatch{FirstName: &first})
	next.Roles[0] = "mutated"

	assert.Equal(t, "Alicia", next.FirstName)
	assert.Equal(t, "L", next.LastName)
	assert.Equal(t, PasswordHash("digest"), next.PasswordHash)
	assert.Equal(t, "Alice", orig.FirstName)
	assert.Equal(t, "user", orig.Roles[0])
}

func TestUserPublic(t *testing.T) {
	u := User{Email: "a@example.com", PasswordHash: "digest"}
	assert.Empty(t, u.Public().PasswordHash)
	assert.Equal(t, PasswordHash("digest"), u.PasswordHash)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM\t"))
}

func TestProjectApply(t *testing.T) {
	orig := Project{Title: "A", Technologies: []string{"go"}, Order: 1}
	techs := []string{"go", "sql"}
	order := 0

	next := orig.Apply(ProjectPatch{Technologies: &techs, Order: &order})
	techs[0] = "mutated"

	assert.Equal(t, "A", next.Title)
	assert.Equal(t, []string{"go", "sql"}, next.Technologies)
	assert.Equal(t, 0, next.Order)
	assert.Equal(t, []string{"go"}, orig.Technologies)
}

func TestBlogPostApply_KeepsViews(t *testing.T) {
	orig := BlogPost{Title: "T", Views: 7, Tags: []string{"a"}}
	status := PostStatusPublished

	next := orig.Apply(BlogPostPatch{Status: &status})
	assert.Equal(t, 7, next.Views)
	assert.Equal(t, PostStatusPublished, next.Status)
	assert.Empty(t, orig.Status)
}

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2020-01-31"`), &d))
	assert.Equal(t, "2020-01-31", d.String())

	require.NoError(t, json.Unmarshal([]byte(`"2021-05-04T23:30:00-02:00"`), &d))
	assert.Equal(t, "2021-05-05", d.String())

	out, err := json.Marshal(struct {
		Start *Date `json:"start"`
	}{Start: &d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2021-05-05"}`, string(out))

	err = json.Unmarshal([]byte(`"31/01/2020"`), &d)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExperienceApply(t *testing.T) {
	start := MustDate("2020-01-01")
	orig := Experience{Title: "Dev", StartDate: &start}
	end := MustDate("2021-01-01")

	next := orig.Apply(ExperiencePatch{EndDate: &end})
	end = MustDate("1999-01-01")

	assert.Equal(t, "2021-01-01", next.EndDate.String())
	assert.Nil(t, orig.EndDate)
	assert.Equal(t, "Dev", next.Title)
}
