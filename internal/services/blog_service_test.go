package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/database/databasetest"
	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
)

func TestBlogService_CreateGeneratesSlug(t *testing.T) {
	blog := services.NewBlogService(databasetest.New(t))
	ctx := context.Background()

	post, err := blog.CreatePost(ctx, models.BlogPost{Title: "Hello, World! Go & Chi", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-go-chi", post.Slug)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.False(t, post.IsPublished)
	assert.Nil(t, post.PublishedAt)
	assert.Equal(t, []string{}, post.Tags)

	_, err = blog.CreatePost(ctx, models.BlogPost{Title: "hello world go chi", Content: "again"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = blog.CreatePost(ctx, models.BlogPost{Title: "!!!", Content: "x"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestBlogService_PublishedStampsTime(t *testing.T) {
	blog := services.NewBlogService(databasetest.New(t))

	post, err := blog.CreatePost(context.Background(), models.BlogPost{Title: "Live", Content: "x", IsPublished: true})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, post.Status)
	require.NotNil(t, post.PublishedAt)
}

func TestBlogService_ReadsIncrementViews(t *testing.T) {
	blog := services.NewBlogService(databasetest.New(t))
	ctx := context.Background()

	post, err := blog.CreatePost(ctx, models.BlogPost{Title: "Counted", Content: "x", Tags: []string{"go"}})
	require.NoError(t, err)

	got, err := blog.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)
	assert.Equal(t, []string{"go"}, got.Tags)

	got, err = blog.GetPostBySlug(ctx, "counted")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	_, err = blog.GetPostBySlug(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBlogService_UpdateAndDelete(t *testing.T) {
	blog := services.NewBlogService(databasetest.New(t))
	ctx := context.Background()

	post, err := blog.CreatePost(ctx, models.BlogPost{Title: "First Draft", Content: "x"})
	require.NoError(t, err)
	_, err = blog.GetPostByID(ctx, post.ID)
	require.NoError(t, err)

	title := "Final Title"
	status := models.PostStatusPublished
	updated, err := blog.UpdatePost(ctx, post.ID, models.BlogPostPatch{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "final-title", updated.Slug)
	assert.True(t, updated.IsPublished)
	assert.NotNil(t, updated.PublishedAt)
	assert.Equal(t, 1, updated.Views)

	require.NoError(t, blog.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, blog.DeletePost(ctx, post.ID), apperr.ErrNotFound)

	_, err = blog.UpdatePost(ctx, post.ID, models.BlogPostPatch{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBlogService_ListPublishedOnly(t *testing.T) {
	blog := services.NewBlogService(databasetest.New(t))
	ctx := context.Background()

	_, err := blog.CreatePost(ctx, models.BlogPost{Title: "Draft", Content: "x"})
	require.NoError(t, err)
	live, err := blog.CreatePost(ctx, models.BlogPost{Title: "Live", Content: "x", IsPublished: true})
	require.NoError(t, err)

	all, err := blog.GetAllPosts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := blog.GetAllPosts(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, live.ID, published[0].ID)
}

func TestBlogService_PublishDue(t *testing.T) {
	blog := services.NewBlogService(databasetest.New(t))
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	due, err := blog.CreatePost(ctx, models.BlogPost{Title: "Due", Content: "x", Status: models.PostStatusScheduled, PublishedAt: &past})
	require.NoError(t, err)
	_, err = blog.CreatePost(ctx, models.BlogPost{Title: "Later", Content: "x", Status: models.PostStatusScheduled, PublishedAt: &future})
	require.NoError(t, err)

	published, err := blog.PublishDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, due.ID, published[0].ID)
	assert.Equal(t, models.PostStatusPublished, published[0].Status)

	again, err := blog.PublishDue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, again)

	live, err := blog.GetAllPosts(ctx, true)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "due", live[0].Slug)
}

func TestBlogService_UpdateIsPublishedDrivesStatus(t *testing.T) {
	blog := services.NewBlogService(databasetest.New(t))
	ctx := context.Background()

	draft, err := blog.CreatePost(ctx, models.BlogPost{Title: "Toggle", Content: "x"})
	require.NoError(t, err)
	require.Equal(t, models.PostStatusDraft, draft.Status)

	on := true
	live, err := blog.UpdatePost(ctx, draft.ID, models.BlogPostPatch{IsPublished: &on})
	require.NoError(t, err)
	assert.True(t, live.IsPublished)
	assert.Equal(t, models.PostStatusPublished, live.Status)
	assert.NotNil(t, live.PublishedAt)

	off := false
	hidden, err := blog.UpdatePost(ctx, draft.ID, models.BlogPostPatch{IsPublished: &off})
	require.NoError(t, err)
	assert.False(t, hidden.IsPublished)
	assert.Equal(t, models.PostStatusDraft, hidden.Status)

	published, err := blog.GetAllPosts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, published)
}

func TestBlogService_ScheduledRequiresPublishedAt(t *testing.T) {
	blog := services.NewBlogService(databasetest.New(t))
	ctx := context.Background()

	_, err := blog.CreatePost(ctx, models.BlogPost{Title: "Someday", Content: "x", Status: models.PostStatusScheduled})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)

	draft, err := blog.CreatePost(ctx, models.BlogPost{Title: "Draft", Content: "x"})
	require.NoError(t, err)

	scheduled := models.PostStatusScheduled
	_, err = blog.UpdatePost(ctx, draft.ID, models.BlogPostPatch{Status: &scheduled})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "publishedAt", verr.Fields[0].Field)

	stored, err := blog.GetPostByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, stored.Status)

	when := time.Now().UTC().Add(time.Hour)
	queued, err := blog.UpdatePost(ctx, draft.ID, models.BlogPostPatch{Status: &scheduled, PublishedAt: &when})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, queued.Status)
	assert.False(t, queued.IsPublished)
}
