package mocks

import (
	"context"
	"sync"

	"github.com/0xsj/overwatch-profile/internal/domain/event"
	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// --- EventPublisher Mock ---

// EventPublisher is a mock implementation of messaging.EventPublisher.
type EventPublisher struct {
	mu sync.Mutex

	events []event.Event

	// Call tracking
	Calls struct {
		Publish    int
		PublishAll int
	}

	// Error injection
	Errors struct {
		Publish    error
		PublishAll error
	}
}

// NewEventPublisher creates a new mock EventPublisher.
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

func (m *EventPublisher) Publish(ctx context.Context, evt event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Publish++

	if m.Errors.Publish != nil {
		return m.Errors.Publish
	}

	m.events = append(m.events, evt)
	return nil
}

func (m *EventPublisher) PublishAll(ctx context.Context, events []event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.PublishAll++

	if m.Errors.PublishAll != nil {
		return m.Errors.PublishAll
	}

	m.events = append(m.events, events...)
	return nil
}

// HasEvent checks if any event of the given type was published.
func (m *EventPublisher) HasEvent(eventType string) bool {
	return m.CountOf(eventType) > 0
}

// CountOf returns how many events of the given type were published.
func (m *EventPublisher) CountOf(eventType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, evt := range m.events {
		if evt.EventType() == eventType {
			n++
		}
	}
	return n
}

// --- NotificationQueue Mock ---

// NotificationQueue is a mock implementation of messaging.NotificationQueue.
type NotificationQueue struct {
	mu sync.Mutex

	Messages []model.EmailNotification

	Calls struct {
		Enqueue int
	}

	Errors struct {
		Enqueue error
	}
}

// NewNotificationQueue creates a new mock NotificationQueue.
func NewNotificationQueue() *NotificationQueue {
	return &NotificationQueue{}
}

func (m *NotificationQueue) Enqueue(ctx context.Context, msg model.EmailNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Enqueue++

	if m.Errors.Enqueue != nil {
		return m.Errors.Enqueue
	}

	m.Messages = append(m.Messages, msg)
	return nil
}
