package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotifierDeliversEvents(t *testing.T) {
	var mu sync.Mutex
	received := make([]Event, 0, 1)
	done := make(chan struct{}, 1)

	sender := SenderFunc(func(_ context.Context, event Event) error {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})

	n := NewNotifier(sender, Config{Workers: 1, BufferSize: 4}, zap.NewNop())
	n.Start(context.Background())
	defer n.Stop()

	n.Notify(context.Background(), Event{
		Kind:           EventLeaveApproved,
		RecipientEmail: "asha@example.edu",
		Subject:        "Leave request approved",
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered in time")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	require.Equal(t, EventLeaveApproved, received[0].Kind)
	require.False(t, received[0].OccurredAt.IsZero())
}

func TestNotifierSwallowsSenderFailures(t *testing.T) {
	attempted := make(chan struct{}, 1)
	sender := SenderFunc(func(context.Context, Event) error {
		attempted <- struct{}{}
		return errors.New("smtp unreachable")
	})

	n := NewNotifier(sender, Config{Workers: 1}, zap.NewNop())
	n.Start(context.Background())
	defer n.Stop()

	// must not panic or surface the error
	n.Notify(context.Background(), Event{Kind: EventWorkloadAssigned})

	select {
	case <-attempted:
	case <-time.After(2 * time.Second):
		t.Fatal("sender was never invoked")
	}
}

func TestNotifierDropsWhenNotStarted(t *testing.T) {
	sender := SenderFunc(func(context.Context, Event) error { return nil })
	n := NewNotifier(sender, Config{}, zap.NewNop())

	// enqueue fails internally and is logged; the call itself never errors
	n.Notify(context.Background(), Event{Kind: EventLeaveRejected})
}
