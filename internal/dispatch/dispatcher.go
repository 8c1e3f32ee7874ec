// Package dispatch runs the pipeline between the connection manager and the
// client-side state: classify each frame, reconcile it, then surface any
// user-facing notification.
package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/volunteerhub/realtime/internal/connection"
	"github.com/volunteerhub/realtime/internal/event"
	"github.com/volunteerhub/realtime/internal/notify"
	"github.com/volunteerhub/realtime/internal/state"
)

// Dispatcher consumes raw frames and drives the state store and the
// notification surface.
type Dispatcher interface {
	// Start begins consuming frames from the input channel.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the dispatcher.
	Stop(ctx context.Context) error

	// Stats returns current dispatcher statistics.
	Stats() Stats
}

// Stats contains runtime statistics.
type Stats struct {
	FramesReceived      int64
	EventsApplied       int64
	FramesDropped       int64
	NotificationsRaised int64
}

type dispatcher struct {
	logger     *slog.Logger
	input      <-chan connection.RawMessage
	classifier *event.Classifier
	store      *state.Store
	notes      *notify.Surface

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	received int64
	applied  int64
	dropped  int64
	raised   int64
}

// New creates a Dispatcher reading from input. The input is normally
// Manager.Messages().
func New(input <-chan connection.RawMessage, store *state.Store, notes *notify.Surface, logger *slog.Logger) Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &dispatcher{
		logger:     logger,
		input:      input,
		classifier: event.NewClassifier(logger),
		store:      store,
		notes:      notes,
	}
}

// FailureHandler adapts the notification surface to the connection
// manager's failure callback.
func FailureHandler(notes *notify.Surface) func(message string) {
	return func(message string) {
		notes.EnqueueError("Connection lost", message)
	}
}

// Start begins consuming frames.
func (d *dispatcher) Start(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go d.loop()

	d.logger.Info("dispatcher started")
	return nil
}

// Stop gracefully shuts down the dispatcher.
func (d *dispatcher) Stop(ctx context.Context) error {
	d.logger.Info("stopping dispatcher")

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("dispatcher stopped")
	case <-ctx.Done():
		d.logger.Warn("dispatcher stop timed out")
	}

	return nil
}

// Stats returns current statistics.
func (d *dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Stats{
		FramesReceived:      d.received,
		EventsApplied:       d.applied,
		FramesDropped:       d.dropped,
		NotificationsRaised: d.raised,
	}
}

func (d *dispatcher) loop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case raw, ok := <-d.input:
			if !ok {
				d.logger.Info("input channel closed")
				return
			}
			d.dispatch(raw)
		}
	}
}

// dispatch processes one frame end to end.
func (d *dispatcher) dispatch(raw connection.RawMessage) {
	d.mu.Lock()
	d.received++
	d.mu.Unlock()

	ev, ok := d.classifier.Classify(raw.Data, raw.ReceivedAt)
	if !ok {
		d.mu.Lock()
		d.dropped++
		d.mu.Unlock()
		return
	}

	// Capacity notifies only on the transition into full, which needs the
	// state prior to reconciliation.
	var wasFull, wasLoaded bool
	if cc, isCap := ev.(event.CapacityChanged); isCap {
		prior, loaded := d.store.Capacity(cc.Capacity.EventID)
		wasFull, wasLoaded = prior.IsFull, loaded
	}

	d.store.Apply(ev)

	d.mu.Lock()
	d.applied++
	d.mu.Unlock()

	if cc, isCap := ev.(event.CapacityChanged); isCap {
		if wasLoaded && !wasFull && cc.Capacity.IsFull {
			d.notes.Enqueue(event.CapacityNotification(cc))
			d.mu.Lock()
			d.raised++
			d.mu.Unlock()
		}
		return
	}

	if n, userFacing := event.NotificationFor(ev); userFacing {
		d.notes.Enqueue(n)
		d.mu.Lock()
		d.raised++
		d.mu.Unlock()
	}
}
