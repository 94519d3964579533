package ledger

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// Recorder persists settled rounds
type Recorder interface {
	RecordRound(ctx context.Context, r game.RoundResult) error
}

// Reconciler forwards settled rounds from a session to a Recorder on a
// background goroutine, so play never waits on the store.
type Reconciler struct {
	store   Recorder
	logger  *log.Logger
	timeout time.Duration

	mu      sync.Mutex
	queue   chan game.RoundResult
	closed  bool
	dropped int
	failed  int
	wg      sync.WaitGroup
}

// NewReconciler starts a reconciler with room for buffer pending rounds
func NewReconciler(store Recorder, logger *log.Logger, buffer int) *Reconciler {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	if buffer <= 0 {
		buffer = 16
	}
	r := &Reconciler{
		store:   store,
		logger:  logger.WithPrefix("ledger"),
		timeout: 5 * time.Second,
		queue:   make(chan game.RoundResult, buffer),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// OnEvent implements game.EventSubscriber. It never blocks; when the queue
// is full the round is dropped and counted.
func (r *Reconciler) OnEvent(event game.GameEvent) {
	settled, ok := event.(game.RoundSettledEvent)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- settled.Result:
	default:
		r.dropped++
		r.logger.Error("Reconciliation queue full, dropping round", "round", settled.Result.ID)
	}
}

// Close stops accepting rounds and waits for queued ones to be written
func (r *Reconciler) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	r.wg.Wait()
}

// Stats returns how many rounds were dropped or failed to persist
func (r *Reconciler) Stats() (dropped, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped, r.failed
}

func (r *Reconciler) run() {
	defer r.wg.Done()
	for result := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err := r.store.RecordRound(ctx, result)
		cancel()
		if err != nil {
			r.mu.Lock()
			r.failed++
			r.mu.Unlock()
			r.logger.Error("Failed to record round", "round", result.ID, "error", err)
			continue
		}
		r.logger.Debug("Round recorded", "round", result.ID, "balance", result.Balance)
	}
}
