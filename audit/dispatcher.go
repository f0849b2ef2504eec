// audit/dispatcher.go
package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	logger "github.com/dev-mohitbeniwal/neonvault/logging"
)

// Dispatcher writes audit records in the background. Callers never wait on a
// write and never see its outcome.
type Dispatcher struct {
	svc          Service
	queue        chan AuditRecord
	writeTimeout time.Duration
	group        errgroup.Group

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(svc Service, workers, queueSize int, writeTimeout time.Duration) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	d := &Dispatcher{
		svc:          svc,
		queue:        make(chan AuditRecord, queueSize),
		writeTimeout: writeTimeout,
	}
	for i := 0; i < workers; i++ {
		d.group.Go(d.work)
	}
	return d
}

func (d *Dispatcher) work() error {
	for record := range d.queue {
		d.write(record)
	}
	return nil
}

func (d *Dispatcher) write(record AuditRecord) {
	ctx := context.Background()
	if d.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.writeTimeout)
		defer cancel()
	}
	if err := d.svc.Record(ctx, record); err != nil {
		logger.Error("Failed to write audit record",
			zap.Error(err),
			zap.String("action", string(record.Action)),
			zap.String("requestID", record.RequestID))
	}
}

// Dispatch queues record and returns immediately. It reports false when the
// record was dropped because the queue is full or the dispatcher is closed.
func (d *Dispatcher) Dispatch(record AuditRecord) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Warn("Audit dispatcher closed, dropping record",
			zap.String("action", string(record.Action)),
			zap.String("requestID", record.RequestID))
		return false
	}

	select {
	case d.queue <- record:
		return true
	default:
		logger.Warn("Audit queue full, dropping record",
			zap.String("action", string(record.Action)),
			zap.String("requestID", record.RequestID))
		return false
	}
}

// Close stops accepting records, drains the queue and waits for the workers.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	return d.group.Wait()
}

// Auditor accepts records for background delivery.
type Auditor interface {
	Dispatch(record AuditRecord) bool
}
