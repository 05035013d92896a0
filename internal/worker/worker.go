package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lorawan-data-server/internal/models"
)

const consumerTag = "publish_worker"

var (
	ErrQueueFull = errors.New("publish queue is full")
	ErrStopped   = errors.New("publish worker is stopped")
)

type envConfig struct {
	Concurrency int `env:"WORKER_CONCURRENCY" envDefault:"1"`
	QueueSize   int `env:"WORKER_QUEUE_SIZE" envDefault:"1024"`
}

func NewConfig() (*envConfig, error) {
	cfg := &envConfig{}
	if err := env.Parse(cfg, env.Options{}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Sink receives the records the worker drains from its queue.
type Sink interface {
	Publish(ctx context.Context, record *models.TelemetryRecord) error
}

// Worker hands stored records to a Sink off the request path. Publish only
// enqueues, a full queue drops the record.
type Worker struct {
	sink    Sink
	queue   chan models.TelemetryRecord
	group   errgroup.Group
	mu      sync.RWMutex
	stopped bool
	timeout time.Duration
	logger  *zap.Logger
}

func NewWorker(sink Sink, cfg *envConfig, logger *zap.Logger) *Worker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}

	w := &Worker{
		sink:    sink,
		queue:   make(chan models.TelemetryRecord, cfg.QueueSize),
		timeout: 10 * time.Second,
		logger:  logger,
	}
	for i := 0; i < cfg.Concurrency; i++ {
		w.group.Go(w.consume)
	}
	logger.Info("worker launched",
		zap.String("consumer", consumerTag),
		zap.Int("concurrency", cfg.Concurrency),
		zap.Int("queue_size", cfg.QueueSize))
	return w
}

func (w *Worker) Publish(_ context.Context, record *models.TelemetryRecord) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}

	select {
	case w.queue <- *record:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *Worker) consume() error {
	for record := range w.queue {
		w.preHandler(&record)
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := w.sink.Publish(ctx, &record)
		cancel()
		if err != nil {
			w.errorHandler(&record, err)
			continue
		}
		w.postHandler(&record)
	}
	return nil
}

func (w *Worker) preHandler(record *models.TelemetryRecord) {
	w.logger.Debug("start task",
		zap.Int64("id", record.ID),
		zap.String("dev_eui", record.DevEUI),
		zap.Time("startAt", time.Now()))
}

func (w *Worker) errorHandler(record *models.TelemetryRecord, err error) {
	w.logger.Error("error task", zap.Int64("id", record.ID), zap.Error(err))
}

func (w *Worker) postHandler(record *models.TelemetryRecord) {
	w.logger.Debug("finish task",
		zap.Int64("id", record.ID),
		zap.Time("finishAt", time.Now()))
}

// Stop refuses new records and waits until the queue is drained or ctx ends.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- w.group.Wait()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
