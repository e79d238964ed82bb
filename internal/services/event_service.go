package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/models"
)

// Event types recorded by the services.
const (
	EventUserRegistered  = "auth.register"
	EventLoginSucceeded  = "auth.login"
	EventLoginFailed     = "auth.login.failed"
	EventPasswordChanged = "auth.password.changed"
	EventContactReceived = "contact.received"
	EventPostPublished   = "blog.published"
)

// Event levels.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// EventBroadcaster receives every stored event, e.g. to push it to websocket clients.
type EventBroadcaster interface {
	Publish(event models.Event)
}

// EventService provides business logic for event management.
type EventService struct {
	db          *database.DB
	broadcaster EventBroadcaster
}

// NewEventService creates a new EventService. broadcaster may be nil.
func NewEventService(db *database.DB, broadcaster EventBroadcaster) *EventService {
	return &EventService{db: db, broadcaster: broadcaster}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, userID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, message, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, nullStringPtr(event.UserID), event.CreatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", database.Classify(err))
	}
	if s.broadcaster != nil {
		s.broadcaster.Publish(event)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, level, message, user_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", database.Classify(err))
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.UserID, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", database.Classify(err))
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", database.Classify(err))
	}
	return events, nil
}

// record stores an event and only logs on failure; auditing never fails the
// operation that triggered it.
func record(ctx context.Context, events EventServiceProvider, eventType, level, message string, userID *string) {
	if events == nil {
		return
	}
	if err := events.CreateEvent(ctx, eventType, level, message, userID); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to record event")
	}
}
