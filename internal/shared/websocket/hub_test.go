package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) (*Hub, chan string) {
	t.Helper()
	h := NewHub()
	released := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx, func(listingID string) { released <- listingID })
	return h, released
}

func awaitRelease(t *testing.T, released chan string) string {
	t.Helper()
	select {
	case id := <-released:
		return id
	case <-time.After(time.Second):
		t.Fatal("empty-group callback did not fire")
		return ""
	}
}

func TestUnregisterLastClientFiresEmptyGroup(t *testing.T) {
	h, released := runHub(t)

	client := &Client{Hub: h, Send: make(chan []byte, 1), ListingID: "lst-1", ID: "c1"}
	h.register <- client
	h.unregister <- client

	require.Equal(t, "lst-1", awaitRelease(t, released))
	_, open := <-client.Send
	require.False(t, open)
}

func TestBroadcastDropOfLastClientFiresEmptyGroup(t *testing.T) {
	h, released := runHub(t)

	// nobody reads Send, so the broadcast falls into the drop branch
	client := &Client{Hub: h, Send: make(chan []byte), ListingID: "lst-1", ID: "c1"}
	h.register <- client

	h.BroadcastToListing("lst-1", []byte(`{"type":"countdown_tick"}`))

	require.Equal(t, "lst-1", awaitRelease(t, released))
}

func TestBroadcastDropOnlyReleasesWhenGroupEmpties(t *testing.T) {
	h, released := runHub(t)

	stuck := &Client{Hub: h, Send: make(chan []byte), ListingID: "lst-1", ID: "c1"}
	healthy := &Client{Hub: h, Send: make(chan []byte, 4), ListingID: "lst-1", ID: "c2"}
	h.register <- stuck
	h.register <- healthy

	h.BroadcastToListing("lst-1", []byte(`{"type":"countdown_tick"}`))

	// the healthy client got the message and keeps the group alive
	select {
	case data := <-healthy.Send:
		require.NotEmpty(t, data)
	case <-time.After(time.Second):
		t.Fatal("healthy client never received the broadcast")
	}
	select {
	case id := <-released:
		t.Fatalf("group %s released while a client remains", id)
	case <-time.After(50 * time.Millisecond):
	}

	h.unregister <- healthy
	require.Equal(t, "lst-1", awaitRelease(t, released))
}
