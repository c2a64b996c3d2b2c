package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversToSubscribedHandler(t *testing.T) {
	bus := NewBus()

	eventReceived := make(chan BalanceChangeEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		defer wg.Done()
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			eventReceived <- balanceEvent
		} else {
			t.Errorf("Expected BalanceChangeEvent, got %T", event)
		}
	})

	bus.Emit(context.Background(), BalanceChangeEvent{ServerID: 100, UserID: 200})
	wg.Wait()

	select {
	case got := <-eventReceived:
		assert.Equal(t, int64(100), got.ServerID)
		assert.Equal(t, int64(200), got.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

func TestBus_OnlyMatchingTypeReceives(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(EventTypeAchievementTrigger, func(ctx context.Context, event Event) {
		defer wg.Done()
	})
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		t.Error("balance handler should not fire for achievement trigger")
	})

	bus.Emit(context.Background(), AchievementTriggerEvent{ServerID: 1, UserID: 2, Key: "smooth_criminal"})
	wg.Wait()

	// Give the wrong-type handler a moment to (not) fire.
	time.Sleep(50 * time.Millisecond)
}

func TestBus_PanickingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(EventTypeInventoryChange, func(ctx context.Context, event Event) {
		panic("handler failure")
	})
	bus.Subscribe(EventTypeInventoryChange, func(ctx context.Context, event Event) {
		defer wg.Done()
	})

	bus.Emit(context.Background(), InventoryChangeEvent{ServerID: 1, UserID: 2})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Surviving handler was not invoked")
	}
}
