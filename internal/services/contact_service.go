package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/isdelr/portfolio-be/internal/database"
	"github.com/isdelr/portfolio-be/internal/models"
)

// Contact message statuses.
const (
	ContactStatusNew      = "new"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// ContactServiceProvider defines the interface for contact message services.
type ContactServiceProvider interface {
	CreateMessage(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error)
	GetAllMessages(ctx context.Context) ([]models.ContactMessage, error)
	GetMessageByID(ctx context.Context, id string) (models.ContactMessage, error)
	MarkAsRead(ctx context.Context, id string) (models.ContactMessage, error)
	UpdateStatus(ctx context.Context, id, status string) (models.ContactMessage, error)
	DeleteMessage(ctx context.Context, id string) error
	UnreadCount(ctx context.Context) (int, error)
}

// ContactService stores messages from the contact form.
type ContactService struct {
	db     *database.DB
	events EventServiceProvider
	now    func() time.Time
}

// NewContactService creates a new ContactService. events may be nil.
func NewContactService(db *database.DB, events EventServiceProvider) *ContactService {
	return &ContactService{db: db, events: events, now: time.Now}
}

const contactColumns = `id, name, email, subject, message, status, is_read, read_at, created_at, updated_at`

func scanContact(row rowScanner) (models.ContactMessage, error) {
	var m models.ContactMessage
	var subject sql.NullString
	var readAt sql.NullTime
	err := row.Scan(&m.ID, &m.Name, &m.Email, &subject, &m.Message, &m.Status, &m.IsRead, &readAt,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return models.ContactMessage{}, err
	}
	m.Subject = subject.String
	m.ReadAt = timePtr(readAt)
	return m, nil
}

// CreateMessage stores a new unread message.
func (s *ContactService) CreateMessage(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	now := s.now().UTC()
	msg.ID = uuid.New().String()
	msg.Status = ContactStatusNew
	msg.IsRead = false
	msg.ReadAt = nil
	msg.CreatedAt = now
	msg.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Name, msg.Email, nullString(msg.Subject), msg.Message, msg.Status, msg.IsRead,
		nullTime(msg.ReadAt), msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("create contact message: %w", database.Classify(err))
	}

	record(ctx, s.events, EventContactReceived, LevelInfo, fmt.Sprintf("Contact message from %s", msg.Email), nil)
	return msg, nil
}

// GetAllMessages lists messages, newest first.
func (s *ContactService) GetAllMessages(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", database.Classify(err))
	}
	defer rows.Close()

	messages := []models.ContactMessage{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", database.Classify(err))
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", database.Classify(err))
	}
	return messages, nil
}

// GetMessageByID retrieves a single message.
func (s *ContactService) GetMessageByID(ctx context.Context, id string) (models.ContactMessage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contact_messages WHERE id = ?`, id)
	m, err := scanContact(row)
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("contact message %s: %w", id, database.Classify(err))
	}
	return m, nil
}

// MarkAsRead flags a message as read. The first read time is kept.
func (s *ContactService) MarkAsRead(ctx context.Context, id string) (models.ContactMessage, error) {
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE contact_messages SET is_read = ?, read_at = COALESCE(read_at, ?), updated_at = ? WHERE id = ?`,
		true, now, now, id)
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("mark contact message %s read: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.ContactMessage{}, fmt.Errorf("mark contact message %s read: %w", id, err)
	}
	return s.GetMessageByID(ctx, id)
}

// UpdateStatus sets the triage status of a message.
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) (models.ContactMessage, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contact_messages SET status = ?, updated_at = ? WHERE id = ?`, status, s.now().UTC(), id)
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("update contact message %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return models.ContactMessage{}, fmt.Errorf("update contact message %s: %w", id, err)
	}
	return s.GetMessageByID(ctx, id)
}

// DeleteMessage removes a message.
func (s *ContactService) DeleteMessage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contact message %s: %w", id, database.Classify(err))
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("delete contact message %s: %w", id, err)
	}
	return nil
}

// UnreadCount returns how many messages have not been read.
func (s *ContactService) UnreadCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages WHERE is_read = ?`, false).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread contact messages: %w", database.Classify(err))
	}
	return n, nil
}
