package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	block  chan struct{}
}

func (s *recordingService) Process(_ context.Context, e domain.AuthEvent) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingService) snapshot() []domain.AuthEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuthEvent(nil), s.events...)
}

func TestDispatcher_PreservesPerAccountOrder(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 50; i++ {
		d.Record(domain.AuthEvent{Type: domain.EventLoginFailed, UserID: 42, Reason: string(rune('a' + i%26))})
		d.Record(domain.AuthEvent{Type: domain.EventLoginFailed, UserID: int64(i + 100)})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	events := svc.snapshot()
	assert.Len(t, events, 100)

	var mine []string
	for _, e := range events {
		if e.UserID == 42 {
			mine = append(mine, e.Reason)
		}
	}
	require.Len(t, mine, 50)
	for i, r := range mine {
		assert.Equal(t, string(rune('a'+i%26)), r)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	svc := &recordingService{block: make(chan struct{})}
	var dropped atomic.Int64
	d := NewDispatcher(1, svc, zerolog.Nop(), WithDropHook(func() { dropped.Add(1) }))
	d.Start(context.Background())

	// One event is held by the blocked worker; the buffer takes the rest.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuthEvent{Type: domain.EventAccessDenied, UserID: 1})
	}
	assert.Positive(t, dropped.Load())
	assert.LessOrEqual(t, d.Depth(), channelBuffer)

	close(svc.block)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	assert.Equal(t, int64(channelBuffer+10), int64(len(svc.snapshot()))+dropped.Load())
}

func TestDispatcher_RecordAfterShutdownDrops(t *testing.T) {
	svc := &recordingService{}
	var dropped atomic.Int64
	d := NewDispatcher(2, svc, zerolog.Nop(), WithDropHook(func() { dropped.Add(1) }))
	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))

	d.Record(domain.AuthEvent{Type: domain.EventRegistered, UserID: 1})
	assert.Equal(t, int64(1), dropped.Load())
	assert.Empty(t, svc.snapshot())
}
