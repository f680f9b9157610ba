package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/events"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, payload []byte) (int64, error) {
	args := m.Called(ctx, channel, payload)
	return args.Get(0).(int64), args.Error(1)
}

func TestNotificationServicePublishesEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, "tickets.events", mock.MatchedBy(func(payload []byte) bool {
		var decoded map[string]any
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return false
		}
		return decoded["type"] == "ticket_deleted" && decoded["ticket_id"] == "t-1"
	})).Return(int64(2), nil).Once()

	NewNotificationService(dispatcher, pub, "tickets.events", zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{ID: "e-1", Type: events.EventTicketDeleted, TicketID: "t-1"})
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestNotificationServiceReportsPublishFailure(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &mockPublisher{}
	boom := errors.New("connection refused")
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), boom)

	NewNotificationService(dispatcher, pub, "tickets.events", zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated, TicketID: "t-2"})
	assert.ErrorIs(t, err, boom)
}

func TestNotificationServiceWithoutPublisher(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, nil, "tickets.events", zap.NewNop()).RegisterHandlers()

	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketUpdated}))
}
