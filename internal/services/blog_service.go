package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/models"
)

// BlogServiceProvider defines the interface for blog services.
type BlogServiceProvider interface {
	GetAllPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error)
	GetPostByID(ctx context.Context, id string) (models.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (models.BlogPost, error)
	CreatePost(ctx context.Context, post models.BlogPost) (models.BlogPost, error)
	UpdatePost(ctx context.Context, id string, patch models.BlogPostPatch) (models.BlogPost, error)
	DeletePost(ctx context.Context, id string) error
	PublishDue(ctx context.Context, now time.Time) ([]models.BlogPost, error)
}

// BlogService provides business logic for blog posts.
type BlogService struct {
	db  *database.DB
	now func() time.Time
}

// NewBlogService creates a new BlogService.
func NewBlogService(db *database.DB) *BlogService {
	return &BlogService{db: db, now: time.Now}
}

const blogColumns = `id, title, slug, excerpt, content, featured_image, tags_json, status, views,
	is_published, published_at, created_at, updated_at`

func scanPost(row rowScanner) (models.BlogPost, error) {
	var p models.BlogPost
	var excerpt, image sql.NullString
	var tags string
	var publishedAt sql.NullTime
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &excerpt, &p.Content, &image, &tags, &p.Status, &p.Views,
		&p.IsPublished, &publishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.BlogPost{}, err
	}
	p.Excerpt = excerpt.String
	p.FeaturedImage = image.String
	p.Tags = decodeStrings(tags)
	p.PublishedAt = timePtr(publishedAt)
	return p, nil
}

func (s *BlogService) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Classify(err)
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, database.Classify(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify(err)
	}
	return posts, nil
}

// GetAllPosts lists posts, newest publication first.
func (s *BlogService) GetAllPosts(ctx context.Context, publishedOnly bool) ([]models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts`
	var args []interface{}
	if publishedOnly {
		query += ` WHERE is_published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY published_at DESC, created_at DESC`

	posts, err := s.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPostByID retrieves a post and counts the read.
func (s *BlogService) GetPostByID(ctx context.Context, id string) (models.BlogPost, error) {
	return s.getAndCount(ctx, "id", id)
}

// GetPostBySlug retrieves a post by slug and counts the read.
func (s *BlogService) GetPostBySlug(ctx context.Context, slug string) (models.BlogPost, error) {
	return s.getAndCount(ctx, "slug", slug)
}

// getAndCount bumps the view counter and returns the post as stored after the bump.
func (s *BlogService) getAndCount(ctx context.Context, column, value string) (models.BlogPost, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE blog_posts SET views = views + 1 WHERE `+column+` = ?`, value)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("post %s: %w", value, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.BlogPost{}, fmt.Errorf("post %s: %w", value, err)
	}
	p, err := s.get(ctx, column, value)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("post %s: %w", value, err)
	}
	return p, nil
}

func (s *BlogService) get(ctx context.Context, column, value string) (models.BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE `+column+` = ?`, value)
	p, err := scanPost(row)
	if err != nil {
		return models.BlogPost{}, database.Classify(err)
	}
	return p, nil
}

// CreatePost stores a new post. An empty slug is derived from the title and
// a published post without a publication time is stamped now.
func (s *BlogService) CreatePost(ctx context.Context, post models.BlogPost) (models.BlogPost, error) {
	now := s.now().UTC()
	post.ID = uuid.New().String()
	post.Views = 0
	if post.Slug == "" {
		post.Slug = models.Slugify(post.Title)
	}
	if post.Slug == "" {
		return models.BlogPost{}, &apperr.ValidationError{Fields: []apperr.FieldError{
			{Field: "slug", Message: "could not be derived from title"},
		}}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	normalizePublication(&post, now)
	if err := checkSchedule(post); err != nil {
		return models.BlogPost{}, err
	}
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_posts (`+blogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Slug, nullString(post.Excerpt), post.Content, nullString(post.FeaturedImage),
		encodeStrings(post.Tags), post.Status, post.Views, post.IsPublished, nullTime(post.PublishedAt),
		post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("create post: %w", slugConflict(err))
	}
	return post, nil
}

// UpdatePost merges patch into the stored post. Views are left untouched.
func (s *BlogService) UpdatePost(ctx context.Context, id string, patch models.BlogPostPatch) (models.BlogPost, error) {
	current, err := s.get(ctx, "id", id)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("post %s: %w", id, err)
	}
	now := s.now().UTC()
	next := current.Apply(patch)
	if patch.Title != nil && patch.Slug == nil && current.Slug == models.Slugify(current.Title) {
		next.Slug = models.Slugify(next.Title)
	}
	if patch.IsPublished != nil && patch.Status == nil {
		next.Status = statusFor(*patch.IsPublished)
	}
	normalizePublication(&next, now)
	if err := checkSchedule(next); err != nil {
		return models.BlogPost{}, err
	}
	next.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		`UPDATE blog_posts SET title = ?, slug = ?, excerpt = ?, content = ?, featured_image = ?, tags_json = ?,
			status = ?, is_published = ?, published_at = ?, updated_at = ?
		 WHERE id = ?`,
		next.Title, next.Slug, nullString(next.Excerpt), next.Content, nullString(next.FeaturedImage),
		encodeStrings(next.Tags), next.Status, next.IsPublished, nullTime(next.PublishedAt), next.UpdatedAt, id)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("update post %s: %w", id, slugConflict(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.BlogPost{}, fmt.Errorf("update post %s: %w", id, err)
	}
	return next, nil
}

// DeletePost removes a post.
func (s *BlogService) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

// PublishDue publishes every scheduled post whose publication time is at or
// before now and returns the posts it changed.
func (s *BlogService) PublishDue(ctx context.Context, now time.Time) ([]models.BlogPost, error) {
	now = now.UTC()
	due, err := s.queryPosts(ctx,
		`SELECT `+blogColumns+` FROM blog_posts WHERE status = ? AND published_at IS NOT NULL AND published_at <= ?`,
		models.PostStatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("list scheduled posts: %w", err)
	}

	published := make([]models.BlogPost, 0, len(due))
	for _, p := range due {
		res, err := s.db.ExecContext(ctx,
			`UPDATE blog_posts SET status = ?, is_published = ?, updated_at = ? WHERE id = ? AND status = ?`,
			models.PostStatusPublished, true, now, p.ID, models.PostStatusScheduled)
		if err != nil {
			return published, fmt.Errorf("publish post %s: %w", p.ID, database.Classify(err))
		}
		if err := expectOneRow(res); err != nil {
			// Changed by someone else since the select.
			log.Debug().Str("post_id", p.ID).Msg("Scheduled post no longer pending")
			continue
		}
		p.Status = models.PostStatusPublished
		p.IsPublished = true
		p.UpdatedAt = now
		published = append(published, p)
	}
	return published, nil
}

// normalizePublication keeps status, is_published and published_at consistent.
func normalizePublication(p *models.BlogPost, now time.Time) {
	if p.Status == "" {
		p.Status = statusFor(p.IsPublished)
	}
	switch p.Status {
	case models.PostStatusPublished:
		p.IsPublished = true
		if p.PublishedAt == nil {
			t := now
			p.PublishedAt = &t
		}
	case models.PostStatusScheduled, models.PostStatusDraft:
		p.IsPublished = false
	}
}

func statusFor(published bool) string {
	if published {
		return models.PostStatusPublished
	}
	return models.PostStatusDraft
}

// checkSchedule rejects a scheduled post that has no publication time.
func checkSchedule(p models.BlogPost) error {
	if p.Status == models.PostStatusScheduled && p.PublishedAt == nil {
		return &apperr.ValidationError{Fields: []apperr.FieldError{
			{Field: "publishedAt", Message: "is required when status is scheduled"},
		}}
	}
	return nil
}

func slugConflict(err error) error {
	err = database.Classify(err)
	if errors.Is(err, apperr.ErrConflict) {
		return fmt.Errorf("%w: slug already in use", apperr.ErrConflict)
	}
	return err
}
