package registry

import (
	"sync"

	"github.com/google/uuid"
)

// SubscriptionManager tracks cancel functions for live listeners so they can
// be torn down individually or all at once at shutdown.
type SubscriptionManager struct {
	mu      sync.Mutex
	cancels map[string]func()
}

// NewSubscriptionManager creates an empty manager.
func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{cancels: make(map[string]func())}
}

// Track registers a cancel function and returns an idempotent unsubscribe
// wrapper for it.
func (m *SubscriptionManager) Track(cancel func()) func() {
	id := uuid.NewString()
	m.mu.Lock()
	m.cancels[id] = cancel
	m.mu.Unlock()
	return func() { m.Cancel(id) }
}

// Cancel invokes and removes the cancel function for a subscription.
// Returns false when the subscription is unknown or already cancelled.
func (m *SubscriptionManager) Cancel(id string) bool {
	m.mu.Lock()
	cancel, ok := m.cancels[id]
	if ok {
		delete(m.cancels, id)
	}
	m.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// CancelAll tears down every registered subscription.
func (m *SubscriptionManager) CancelAll() {
	m.mu.Lock()
	cancels := make([]func(), 0, len(m.cancels))
	for id, cancel := range m.cancels {
		cancels = append(cancels, cancel)
		delete(m.cancels, id)
	}
	m.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// Active reports the number of live subscriptions.
func (m *SubscriptionManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cancels)
}
