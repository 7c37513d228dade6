package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/beratcankara/inoflow/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) events.Event {
	t.Helper()

	select {
	case payload := <-c.send:
		var ev events.Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
		return events.Event{}
	}
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	alice1 := &Client{ID: "a1", UserID: "alice", send: make(chan []byte, 4)}
	alice2 := &Client{ID: "a2", UserID: "alice", send: make(chan []byte, 4)}
	bob := &Client{ID: "b1", UserID: "bob", send: make(chan []byte, 4)}
	hub.Register(alice1)
	hub.Register(alice2)
	hub.Register(bob)

	ev := events.Event{Table: "tasks", Action: "updated", RowID: "t-1", UserIDs: []string{"alice"}}
	hub.HandleEvent(ev)

	// Both of alice's connections get it, bob's gets nothing.
	assert.Equal(t, ev, receive(t, alice1))
	assert.Equal(t, ev, receive(t, alice2))
	select {
	case payload := <-bob.send:
		t.Fatalf("bob should not receive anything, got %s", payload)
	case <-time.After(50 * time.Millisecond):
	}

	// Events naming nobody are dropped outright.
	hub.HandleEvent(events.Event{Table: "tasks", Action: "updated", RowID: "t-2"})
	select {
	case <-alice1.send:
		t.Fatal("event without user ids must not be delivered")
	case <-time.After(50 * time.Millisecond):
	}

	// An unregistered connection stops receiving.
	hub.Unregister(alice2)
	hub.HandleEvent(ev)
	assert.Equal(t, ev, receive(t, alice1))

	hub.Unregister(alice1)
	hub.Unregister(bob)
	cancel()
	hub.Wait()
}
