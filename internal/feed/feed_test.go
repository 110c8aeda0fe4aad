package feed

import (
	"encoding/json"
	"testing"

	"github.com/origincode/arcmugbot/internal/store"
)

func TestHubPublish(t *testing.T) {
	hub := NewHub()
	sub := hub.subscribe()
	defer hub.unsubscribe(sub)

	hub.Publish(2, "Expert Run", []store.RankEntry{
		{UserID: 2, Fullname: "Bob", Life: 900},
		{UserID: 3, Fullname: "Carol", Life: 300},
	})

	select {
	case data := <-sub.ch:
		var update rankUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			t.Fatalf("Decode update failed: %v", err)
		}
		if update.Type != "rank" || update.Level != 2 || update.Course != "Expert Run" {
			t.Errorf("Update header mismatch: %+v", update)
		}
		if len(update.Entries) != 2 || update.Entries[0].Fullname != "Bob" {
			t.Errorf("Update entries mismatch: %+v", update.Entries)
		}
	default:
		t.Fatal("Expected a buffered update")
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.subscribe()

	// Fill the subscriber buffer, then one more publish must detach it
	// instead of blocking.
	for i := 0; i < cap(sub.ch)+1; i++ {
		hub.Publish(1, "Intro", nil)
	}

	if hub.Subscribers() != 0 {
		t.Errorf("Expected slow subscriber to be dropped, still have %d", hub.Subscribers())
	}
}

func TestHubUnsubscribeTwice(t *testing.T) {
	hub := NewHub()
	sub := hub.subscribe()

	hub.unsubscribe(sub)
	hub.unsubscribe(sub) // must not panic on double close

	if hub.Subscribers() != 0 {
		t.Errorf("Expected no subscribers, got %d", hub.Subscribers())
	}
}
