package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Dispatcher forwards audit events to a sink from a single background
// goroutine, so slow sinks never stall the authentication paths. A nil
// Dispatcher is valid and discards everything, which keeps disabled audit
// to one nil check per emit.
type Dispatcher struct {
	sink     Sink
	dropFull bool

	events  chan Event
	quit    chan struct{}
	stopped sync.WaitGroup

	dropped atomic.Uint64
	closing atomic.Bool
}

// NewDispatcher starts the forwarding goroutine. A disabled Config returns
// nil, and a nil sink falls back to [NoOpSink].
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:     sink,
		dropFull: cfg.DropIfFull,
		events:   make(chan Event, cfg.BufferSize),
		quit:     make(chan struct{}),
	}

	d.stopped.Add(1)
	go d.forward()

	return d
}

func (d *Dispatcher) forward() {
	defer d.stopped.Done()

	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		case <-d.quit:
			d.drain()
			return
		}
	}
}

// drain flushes events buffered before Close so none are lost on shutdown.
func (d *Dispatcher) drain() {
	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		default:
			return
		}
	}
}

// Emit queues an event for delivery. With DropIfFull set, a full buffer
// drops the event and counts it; otherwise Emit blocks until the buffer
// accepts it, the context is done, or the dispatcher closes.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil || d.closing.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if !d.dropFull {
		select {
		case d.events <- event:
		case <-ctx.Done():
		case <-d.quit:
		}
		return
	}

	select {
	case d.events <- event:
	case <-d.quit:
	default:
		d.dropped.Add(1)
	}
}

// Close stops accepting events, drains the buffer, and waits for the
// forwarding goroutine. Safe to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	if d.closing.CompareAndSwap(false, true) {
		close(d.quit)
	}
	d.stopped.Wait()
}

// Dropped reports how many events were discarded because the buffer was
// full.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
