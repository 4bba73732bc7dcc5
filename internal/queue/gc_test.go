package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type mockDLQPurger struct {
	calls     int
	purged    int
	err       error
	retention time.Duration
}

func (m *mockDLQPurger) PurgeOlderThan(_ context.Context, retention time.Duration) (int, error) {
	m.calls++
	m.retention = retention
	return m.purged, m.err
}

func TestGarbageCollectorPurges(t *testing.T) {
	mock := &mockDLQPurger{purged: 2}
	gc := NewGarbageCollector(mock, 10*time.Millisecond, 24*time.Hour, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	err := gc.Start(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Start() error = %v, want deadline exceeded", err)
	}
	if mock.calls == 0 {
		t.Error("PurgeOlderThan was not called")
	}
	if mock.retention != 24*time.Hour {
		t.Errorf("retention = %v, want 24h", mock.retention)
	}
}

func TestGarbageCollectorSurvivesPurgeErrors(t *testing.T) {
	mock := &mockDLQPurger{err: errors.New("channel closed")}
	gc := NewGarbageCollector(mock, 10*time.Millisecond, time.Hour, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Millisecond)
	defer cancel()

	_ = gc.Start(ctx)
	if mock.calls < 2 {
		t.Errorf("calls = %d, want the loop to keep running after errors", mock.calls)
	}
}

func TestGarbageCollectorNilPurger(t *testing.T) {
	gc := NewGarbageCollector(nil, 10*time.Millisecond, time.Hour, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := gc.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Start() error = %v, want deadline exceeded", err)
	}
}
