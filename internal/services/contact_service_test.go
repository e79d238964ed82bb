package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/portfolio-be/internal/apperr"
	"github.com/isdelr/portfolio-be/internal/database/databasetest"
	"github.com/isdelr/portfolio-be/internal/models"
	"github.com/isdelr/portfolio-be/internal/services"
)

type recordingBroadcaster struct {
	events []models.Event
}

func (b *recordingBroadcaster) Publish(event models.Event) {
	b.events = append(b.events, event)
}

func TestContactService_Lifecycle(t *testing.T) {
	db := databasetest.New(t)
	hub := &recordingBroadcaster{}
	contact := services.NewContactService(db, services.NewEventService(db, hub))
	ctx := context.Background()

	msg, err := contact.CreateMessage(ctx, models.ContactMessage{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Message: "Hi there",
		IsRead:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, services.ContactStatusNew, msg.Status)
	assert.False(t, msg.IsRead)

	require.Len(t, hub.events, 1)
	assert.Equal(t, services.EventContactReceived, hub.events[0].Type)

	_, err = contact.CreateMessage(ctx, models.ContactMessage{Name: "Other", Email: "o@example.com", Message: "Yo"})
	require.NoError(t, err)

	unread, err := contact.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	read, err := contact.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	again, err := contact.MarkAsRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, read.ReadAt.Equal(*again.ReadAt))

	unread, err = contact.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	replied, err := contact.UpdateStatus(ctx, msg.ID, services.ContactStatusReplied)
	require.NoError(t, err)
	assert.Equal(t, services.ContactStatusReplied, replied.Status)

	all, err := contact.GetAllMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, contact.DeleteMessage(ctx, msg.ID))
	_, err = contact.GetMessageByID(ctx, msg.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = contact.MarkAsRead(ctx, msg.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
