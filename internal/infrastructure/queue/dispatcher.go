package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanchuyen/logistics-api/internal/api/metrics"
	"github.com/vanchuyen/logistics-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	jobTimeout     = 30 * time.Second
)

// Dispatcher delivers notification jobs on a fixed set of workers. Jobs are
// sharded by order id so mails about one order go out in enqueue order.
type Dispatcher struct {
	workers []chan ports.NotificationJob
	service ports.NotificationService
	log     zerolog.Logger
	wg      sync.WaitGroup

	// mu guards closed; Enqueue holds it for reading so Close cannot close a
	// channel mid-send.
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.NotificationJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.NotificationJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops intake. Workers deliver what is already buffered and then return.
// Jobs enqueued after Close are dropped. Calling Close twice is a no-op.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// Enqueue hands a job to the worker responsible for its order. It never blocks
// the request path: when the worker's buffer is full the job is dropped and logged.
func (d *Dispatcher) Enqueue(job ports.NotificationJob) {
	idx := d.shardIndex(job.OrderID)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.NotificationErrorsTotal.WithLabelValues(string(job.Kind), "closed").Inc()
		d.log.Warn().
			Str("order_id", job.OrderID).
			Str("kind", string(job.Kind)).
			Msg("notification dispatcher closed, job dropped")
		return
	}

	select {
	case d.workers[idx] <- job:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.NotificationErrorsTotal.WithLabelValues(string(job.Kind), "queue_full").Inc()
		d.log.Warn().
			Str("order_id", job.OrderID).
			Str("kind", string(job.Kind)).
			Int("worker_id", idx).
			Msg("notification queue full, job dropped")
	}
}

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.NotificationJob) {
	defer d.wg.Done()
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.deliver(ctx, id, job)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, job ports.NotificationJob) {
	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if err := d.service.Deliver(jobCtx, job); err != nil {
		d.log.Error().Err(err).
			Str("order_id", job.OrderID).
			Str("kind", string(job.Kind)).
			Int("worker_id", id).
			Msg("notification delivery failed")
	}
}
