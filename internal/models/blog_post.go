package models

import (
	"regexp"
	"strings"
	"time"
)

// Blog post statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)

// BlogPost is an article on the portfolio blog.
type BlogPost struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	Views         int        `json:"views"`
	IsPublished   bool       `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// BlogPostPatch is a partial update of a post. Views are not patchable.
type BlogPostPatch struct {
	Title         *string    `json:"title"`
	Slug          *string    `json:"slug"`
	Excerpt       *string    `json:"excerpt"`
	Content       *string    `json:"content"`
	FeaturedImage *string    `json:"featuredImage"`
	Tags          *[]string  `json:"tags"`
	Status        *string    `json:"status"`
	IsPublished   *bool      `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt"`
}

// Apply returns a copy of b with the non-nil patch fields merged in.
func (b BlogPost) Apply(p BlogPostPatch) BlogPost {
	out := b
	out.Tags = append([]string(nil), b.Tags...)
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Slug != nil {
		out.Slug = *p.Slug
	}
	if p.Excerpt != nil {
		out.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.FeaturedImage != nil {
		out.FeaturedImage = *p.FeaturedImage
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.IsPublished != nil {
		out.IsPublished = *p.IsPublished
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		out.PublishedAt = &t
	}
	return out
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSeparate = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns a title into a URL-friendly slug.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSeparate.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
