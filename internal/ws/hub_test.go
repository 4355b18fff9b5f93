package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pizzaria-pos/api/internal/auth"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, topics ...string) *Client {
	return &Client{
		hub:    hub,
		topics: topics,
		send:   make(chan []byte, 256),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func TestHubRegistration(t *testing.T) {
	hub := startHub(t)

	client := mockClient(hub, TopicOrders)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.rooms[TopicOrders][client] {
		t.Fatal("client not registered in orders room")
	}
}

func TestHubUnregistration_CleansEveryTopic(t *testing.T) {
	hub := startHub(t)

	userTopic := UserTopic(uuid.New())
	client := mockClient(hub, TopicOrders, userTopic)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)
	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms[TopicOrders] != nil || hub.rooms[userTopic] != nil {
		t.Fatal("rooms not cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Fatal("send channel should be closed")
	}
}

func TestPublish_OnlyReachesTopic(t *testing.T) {
	hub := startHub(t)

	staff := mockClient(hub, TopicOrders)
	customerID := uuid.New()
	customer := mockClient(hub, UserTopic(customerID))

	hub.register <- staff
	hub.register <- customer
	time.Sleep(10 * time.Millisecond)

	hub.Publish(UserTopic(customerID), "order.updated", map[string]string{"status": "CONFIRMED"})

	select {
	case msg := <-customer.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		if received.Type != "order.updated" {
			t.Errorf("expected type 'order.updated', got '%s'", received.Type)
		}
		if string(received.Payload) != `{"status":"CONFIRMED"}` {
			t.Errorf("unexpected payload %s", received.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("customer did not receive message")
	}

	select {
	case <-staff.send:
		t.Fatal("staff board should not receive a private customer event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcast_AllSubscribers(t *testing.T) {
	hub := startHub(t)

	clients := []*Client{mockClient(hub, TopicOrders), mockClient(hub, TopicOrders), mockClient(hub, TopicOrders)}
	for _, c := range clients {
		hub.register <- c
	}
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToTopic(TopicOrders, Event{Type: "order.created", Payload: json.RawMessage(`{"order_number":"PZ-001"}`)})

	for i, c := range clients {
		select {
		case <-c.send:
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client%d did not receive message", i+1)
		}
	}
}

func TestBroadcast_AfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	cancel()
	<-hub.done

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			hub.Publish(TopicOrders, "order.created", struct{}{})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked after hub shutdown")
	}
}

func TestTopicsFor(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		role string
		want string
	}{
		{"ADMIN", TopicOrders},
		{"KITCHEN", TopicOrders},
		{"CASHIER", TopicOrders},
		{"CLIENT", UserTopic(userID)},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := topicsFor(auth.Principal{UserID: userID, Role: tt.role})
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("topics: got %v, want [%s]", got, tt.want)
			}
		})
	}

	if got := topicsFor(auth.Principal{Role: "GHOST"}); len(got) != 0 {
		t.Errorf("unknown role topics: got %v, want none", got)
	}
}
