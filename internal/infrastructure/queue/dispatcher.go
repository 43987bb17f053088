package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes auth events to a fixed set of workers using consistent
// hashing on the account, so events for one account are stored in order.
// It implements ports.AuditSink.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	service ports.AuditService
	log     zerolog.Logger
	onDrop  func()

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithDropHook registers fn to run whenever an event is dropped.
func WithDropHook(fn func()) Option {
	return func(d *Dispatcher) { d.onDrop = fn }
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger, opts ...Option) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		service: service,
		log:     log,
		onDrop:  func() {},
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ ports.AuditSink = (*Dispatcher)(nil)

// Start launches all worker goroutines. Workers run until Shutdown drains
// them; ctx is passed to the audit service for each event.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event without blocking. When the worker's buffer is
// full, or the dispatcher is shut down, the event is dropped.
func (d *Dispatcher) Record(event domain.AuthEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}

	select {
	case d.workers[d.shardIndex(event)] <- event:
	default:
		d.drop(event, "queue full")
	}
}

// Depth returns the number of events waiting across all workers.
func (d *Dispatcher) Depth() int {
	n := 0
	for _, ch := range d.workers {
		n += len(ch)
	}
	return n
}

// Shutdown stops accepting events and waits for queued ones to be processed
// or for ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drop(event domain.AuthEvent, reason string) {
	d.onDrop()
	d.log.Warn().
		Str("type", string(event.Type)).
		Int64("user_id", event.UserID).
		Str("reason", reason).
		Msg("audit event dropped")
}

// shardIndex maps an account deterministically to a worker index.
func (d *Dispatcher) shardIndex(event domain.AuthEvent) int {
	key := event.Email
	if event.UserID != 0 {
		key = strconv.FormatInt(event.UserID, 10)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	defer d.wg.Done()
	for event := range ch {
		if err := d.service.Process(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("type", string(event.Type)).
				Int("worker_id", id).
				Msg("audit event processing failed")
		}
	}
}
