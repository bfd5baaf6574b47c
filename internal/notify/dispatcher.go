// Package notify owns best-effort delivery of post-write notifications.
// Dispatch is fire-and-forget: the submitting request has already been
// answered, so failures are logged and never propagated or retried.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/adapter/mail"
)

// Dispatcher hands messages to a bounded queue served by worker
// goroutines. Enqueue never blocks the caller: when the queue is full
// the message is dropped and logged.
type Dispatcher struct {
	mailer mail.Mailer
	logger *zap.Logger

	mu     sync.Mutex
	jobs   chan mail.Message
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts workers consuming a queue of queueSize messages.
func NewDispatcher(mailer mail.Mailer, logger *zap.Logger, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	d := &Dispatcher{
		mailer: mailer,
		logger: logger,
		jobs:   make(chan mail.Message, queueSize),
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue submits a message for background delivery and returns
// immediately. Messages enqueued for one workflow run are independent:
// one failing has no effect on the others.
func (d *Dispatcher) Enqueue(msg mail.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("notification dropped: dispatcher closed", zap.String("subject", msg.Subject))
		return
	}

	select {
	case d.jobs <- msg:
	default:
		d.logger.Warn("notification dropped: queue full",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
}

// Close stops accepting messages, drains the queue, and waits for
// in-flight sends to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.jobs {
		if err := d.mailer.Send(context.Background(), msg); err != nil {
			d.logger.Error("notification send failed",
				zap.Strings("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
			continue
		}
		d.logger.Debug("notification sent",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
		)
	}
}
