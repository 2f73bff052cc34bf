package notify

import (
	"Relopilot_1.0/backend/go/internal/models"
	"testing"
)

func newConfirmationEvent(id string) *models.NotificationEvent {
	return &models.NotificationEvent{
		Type:         models.EventNewConfirmation,
		Confirmation: &models.PendingConfirmation{ID: id},
	}
}

func TestPublishReachesOnlyThatUser(t *testing.T) {
	hub := NewHub()
	alice := hub.Subscribe("alice")
	defer alice.Close()
	bob := hub.Subscribe("bob")
	defer bob.Close()

	if delivered := hub.Publish("alice", newConfirmationEvent("c1")); delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}

	select {
	case event := <-alice.Events():
		if event.Confirmation.ID != "c1" {
			t.Errorf("event id = %s, want c1", event.Confirmation.ID)
		}
	default:
		t.Fatal("alice did not receive the event")
	}

	select {
	case <-bob.Events():
		t.Fatal("bob must not receive alice's event")
	default:
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe("alice")
	defer first.Close()
	second := hub.Subscribe("alice")
	defer second.Close()

	if delivered := hub.Publish("alice", newConfirmationEvent("c1")); delivered != 2 {
		t.Errorf("delivered = %d, want 2", delivered)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	if delivered := hub.Publish("nobody", newConfirmationEvent("c1")); delivered != 0 {
		t.Errorf("delivered = %d, want 0", delivered)
	}
}

func TestCloseDetachesOnlyThatSubscriber(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe("alice")
	second := hub.Subscribe("alice")
	defer second.Close()

	first.Close()
	first.Close() // idempotent

	if _, open := <-first.Events(); open {
		t.Error("closed subscriber's channel must be closed")
	}

	if delivered := hub.Publish("alice", newConfirmationEvent("c1")); delivered != 1 {
		t.Errorf("delivered = %d, want 1 after one subscriber closed", delivered)
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	slow := hub.Subscribe("alice")
	defer slow.Close()

	// Fill the buffer without draining; the overflow publish must return
	// instead of blocking.
	for i := 0; i <= subscriberBuffer; i++ {
		hub.Publish("alice", newConfirmationEvent("c"))
	}

	if delivered := hub.Publish("alice", newConfirmationEvent("overflow")); delivered != 0 {
		t.Errorf("delivered = %d, want 0 once the buffer is full", delivered)
	}
}
