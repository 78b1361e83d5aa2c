package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockPurger is a mock implementation of ExpiredTokenPurger.
type mockPurger struct {
	calls             atomic.Int32
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *mockPurger) DeleteExpired(ctx context.Context) (int64, error) {
	m.calls.Add(1)
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

func TestRunTokenJanitor(t *testing.T) {
	t.Run("purges until cancelled", func(t *testing.T) {
		purger := &mockPurger{DeleteExpiredFunc: func(ctx context.Context) (int64, error) { return 2, nil }}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		go func() {
			RunTokenJanitor(ctx, purger, 5*time.Millisecond)
			close(done)
		}()

		assert.Eventually(t, func() bool { return purger.calls.Load() >= 2 }, time.Second, time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("janitor did not stop after cancel")
		}
	})

	t.Run("keeps running after a failure", func(t *testing.T) {
		purger := &mockPurger{DeleteExpiredFunc: func(ctx context.Context) (int64, error) {
			return 0, errors.New("database is locked")
		}}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go RunTokenJanitor(ctx, purger, 5*time.Millisecond)

		assert.Eventually(t, func() bool { return purger.calls.Load() >= 3 }, time.Second, time.Millisecond)
	})
}
