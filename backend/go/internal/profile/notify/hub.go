package notify

import (
	"Relopilot_1.0/backend/go/internal/models"
	"sync"
)

// subscriberBuffer bounds how many undelivered events one subscriber may
// hold. A subscriber that falls further behind loses events; the reconnect
// list fetch is the catch-up path.
const subscriberBuffer = 16

// Subscriber is one live reviewer connection on the notification channel.
type Subscriber struct {
	userID string
	events chan *models.NotificationEvent
	hub    *Hub
	once   sync.Once
}

// Events returns the stream of notification events for this subscriber.
// The channel is closed when the subscriber is closed.
func (s *Subscriber) Events() <-chan *models.NotificationEvent {
	return s.events
}

// Close detaches the subscriber from the hub. Safe to call more than once;
// other subscribers and publishers are unaffected.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub is the per-user publish/subscribe channel for confirmation events.
// Events are transient: only currently-connected subscribers receive them.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscriber]struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber for a user's events.
func (h *Hub) Subscribe(userID string) *Subscriber {
	sub := &Subscriber{
		userID: userID,
		events: make(chan *models.NotificationEvent, subscriberBuffer),
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[userID]; !ok {
		h.subscribers[userID] = make(map[*Subscriber]struct{})
	}
	h.subscribers[userID][sub] = struct{}{}
	return sub
}

// Publish fans an event out to every live subscriber of that user, and only
// that user. Sends never block: a full subscriber buffer drops the event.
// Returns the number of subscribers that received it.
func (h *Hub) Publish(userID string, event *models.NotificationEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subscribers[userID] {
		select {
		case sub.events <- event:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) remove(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subscribers[sub.userID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.subscribers, sub.userID)
		}
	}
	// Publish holds the read lock while sending, so closing here cannot race
	// a send.
	close(sub.events)
}
