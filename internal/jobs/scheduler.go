// Package jobs runs background work on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
)

// publishTimeout bounds a single publication pass.
const publishTimeout = 30 * time.Second

// Publisher is the part of the blog service the scheduler drives.
type Publisher interface {
	PublishDue(ctx context.Context, now time.Time) ([]models.BlogPost, error)
}

// Scheduler publishes scheduled blog posts when they come due.
type Scheduler struct {
	blog     Publisher
	eventSvc services.EventServiceProvider
	cron     *cron.Cron
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance. spec is a robfig/cron
// expression such as "@every 1m" or "*/5 * * * *".
func NewScheduler(spec string, blog Publisher, eventSvc services.EventServiceProvider) (*Scheduler, error) {
	s := &Scheduler{
		blog:     blog,
		eventSvc: eventSvc,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		now:      time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid publish schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs one pass immediately and then follows the schedule.
func (s *Scheduler) Start() {
	log.Info().Msg("Starting background scheduler...")
	s.RunOnce()
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running pass to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	log.Info().Msg("Stopping background scheduler.")
}

// RunOnce publishes every post that is due now and records an event per post.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	published, err := s.blog.PublishDue(ctx, s.now())
	for _, post := range published {
		log.Info().Str("post_id", post.ID).Str("slug", post.Slug).Msg("Scheduled post published")
		if s.eventSvc == nil {
			continue
		}
		msg := fmt.Sprintf("Scheduled post '%s' published.", post.Title)
		if err := s.eventSvc.CreateEvent(ctx, services.EventPostPublished, services.LevelInfo, msg, nil); err != nil {
			log.Warn().Err(err).Str("post_id", post.ID).Msg("Failed to record publish event")
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to publish scheduled posts")
		if s.eventSvc != nil {
			_ = s.eventSvc.CreateEvent(ctx, services.EventPostPublished, services.LevelError,
				fmt.Sprintf("Scheduled publication failed: %v", err), nil)
		}
	}
}
