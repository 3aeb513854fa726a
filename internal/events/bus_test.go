package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPublishSyncDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 8)
	defer bus.Shutdown(context.Background())

	mint := solana.NewWallet().PublicKey()
	var got []solana.PublicKey
	sub := bus.Subscribe(CurveCompleted, Typed(func(_ context.Context, e CurveCompletedEvent) error {
		got = append(got, e.Mint)
		return nil
	}))

	event := CurveCompletedEvent{BaseEvent: NewBase(CurveCompleted, "ix-1"), Mint: mint}
	require.NoError(t, bus.PublishSync(context.Background(), event))
	assert.Equal(t, []solana.PublicKey{mint}, got)

	// other types are not delivered
	require.NoError(t, bus.PublishSync(context.Background(), SwapExecutedEvent{BaseEvent: NewBase(SwapExecuted, "ix-2")}))
	assert.Len(t, got, 1)

	sub.Unsubscribe()
	require.NoError(t, bus.PublishSync(context.Background(), event))
	assert.Len(t, got, 1)
	assert.Empty(t, bus.Stats().HandlersPerType)
}

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 8)
	defer bus.Shutdown(context.Background())

	errA := errors.New("a")
	errB := errors.New("b")
	bus.SubscribeFunc(CurveMigrated, func(context.Context, Event) error { return errA })
	bus.SubscribeFunc(CurveMigrated, func(context.Context, Event) error { return errB })

	err := bus.PublishSync(context.Background(), CurveMigratedEvent{BaseEvent: NewBase(CurveMigrated, "")})
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, uint64(2), bus.Stats().HandlerFailures)
}

func TestTypedRejectsForeignEvent(t *testing.T) {
	h := Typed(func(context.Context, CurveCompletedEvent) error { return nil })
	err := h.Handle(context.Background(), SwapExecutedEvent{BaseEvent: NewBase(SwapExecuted, "")})
	assert.Error(t, err)
}

func TestPublishAsync(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t), 8)

	var wg sync.WaitGroup
	wg.Add(3)
	bus.SubscribeFunc(SwapExecuted, func(context.Context, Event) error {
		wg.Done()
		return nil
	})
	for i := 0; i < 3; i++ {
		require.NoError(t, bus.Publish(SwapExecutedEvent{BaseEvent: NewBase(SwapExecuted, "")}))
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events were not delivered")
	}

	require.NoError(t, bus.Shutdown(context.Background()))
	assert.Equal(t, uint64(3), bus.Stats().Published)
	assert.ErrorIs(t, bus.Publish(SwapExecutedEvent{BaseEvent: NewBase(SwapExecuted, "")}), ErrBusClosed)
}
