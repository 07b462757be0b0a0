package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/dimasprk/matchday/internal/domain/notification"
	"github.com/dimasprk/matchday/internal/platform/logging"
)

const notifyDeliveryTimeout = 5 * time.Second

// Notifier fans typed events out to every configured sink on a shared worker
// pool. Dispatch is fire-and-forget: sink failures are logged and never
// surface to the business operation that emitted the event.
type Notifier struct {
	sinks  []notification.Sink
	pool   *ants.Pool
	logger *logging.Logger
	wg     sync.WaitGroup
}

func NewNotifier(workers int, logger *logging.Logger, sinks ...notification.Sink) (*Notifier, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = 4
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	return &Notifier{
		sinks:  sinks,
		pool:   pool,
		logger: logger,
	}, nil
}

// Notify queues delivery of one event to one user. The delivery runs detached
// from the caller's context so a finished request cannot cancel it.
func (n *Notifier) Notify(ctx context.Context, userID string, kind notification.Kind, payload map[string]any) {
	if n == nil || userID == "" {
		return
	}

	detached := context.WithoutCancel(ctx)
	n.wg.Add(1)
	err := n.pool.Submit(func() {
		defer n.wg.Done()
		n.deliver(detached, userID, kind, payload)
	})
	if err != nil {
		// Pool saturated or released: deliver inline rather than drop.
		n.deliver(detached, userID, kind, payload)
		n.wg.Done()
	}
}

func (n *Notifier) deliver(ctx context.Context, userID string, kind notification.Kind, payload map[string]any) {
	ctx, cancel := context.WithTimeout(ctx, notifyDeliveryTimeout)
	defer cancel()

	for _, sink := range n.sinks {
		if err := sink.Create(ctx, userID, kind, payload); err != nil {
			n.logger.WarnContext(ctx, "notification delivery failed",
				"user_id", userID,
				"kind", string(kind),
				"error", err,
			)
		}
	}
}

// Close drains in-flight deliveries and releases the pool.
func (n *Notifier) Close() {
	if n == nil {
		return
	}
	n.wg.Wait()
	n.pool.Release()
}
