package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nutripick/nutripick/internal/insight"
)

// InsightWriter is the narrow persistence surface the sink needs.
// *Store satisfies it.
type InsightWriter interface {
	SaveInsight(ctx context.Context, ins *insight.NutritionInsight) error
}

// SinkConfig configures the write sink.
type SinkConfig struct {
	Writer        InsightWriter
	BatchSize     int           // Flush after N insights (default: 50)
	FlushInterval time.Duration // Or after duration (default: 5s)
	QueueSize     int           // Buffer size (default: 1000)
	Logger        *slog.Logger
}

// Sink batches asynchronous insight writes so evaluation throughput is not
// bounded by per-row round trips.
type Sink struct {
	writer InsightWriter
	logger *slog.Logger

	batchSize     int
	flushInterval time.Duration

	queue   chan *insight.NutritionInsight
	batch   []*insight.NutritionInsight
	batchMu sync.Mutex
	flushCh chan struct{}

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSink creates a new insight write sink.
func NewSink(cfg SinkConfig) *Sink {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Sink{
		writer:        cfg.Writer,
		logger:        cfg.Logger,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		queue:         make(chan *insight.NutritionInsight, cfg.QueueSize),
		batch:         make([]*insight.NutritionInsight, 0, cfg.BatchSize),
		flushCh:       make(chan struct{}, 1),
	}
}

// Start begins processing queued insights.
func (s *Sink) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.runBatcher()
}

// Stop gracefully shuts down the sink, flushing remaining insights.
func (s *Sink) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("stopping sink, flushing remaining insights")
		close(s.queue)
		s.wg.Wait()
		s.cancel()
		s.logger.Info("sink stopped")
	})
}

// Send queues an insight for persistence (fire-and-forget).
func (s *Sink) Send(ins *insight.NutritionInsight) {
	if ins == nil {
		return
	}

	// Recover handles send on closed channel after Stop.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("sink closed, dropping insight", "barcode", ins.Barcode)
		}
	}()

	select {
	case s.queue <- ins:
	default:
		select {
		case s.queue <- ins:
		case <-s.ctx.Done():
			s.logger.Warn("sink closed, dropping insight", "barcode", ins.Barcode)
		}
	}
}

// Flush forces an immediate flush of the current batch.
func (s *Sink) Flush() {
	select {
	case s.flushCh <- struct{}{}:
	default:
		// Flush already pending.
	}
}

// runBatcher collects insights and flushes on size/time triggers.
func (s *Sink) runBatcher() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case ins, ok := <-s.queue:
			if !ok {
				s.flushBatch()
				return
			}
			s.addToBatch(ins)

		case <-ticker.C:
			s.flushBatch()

		case <-s.flushCh:
			s.flushBatch()
		}
	}
}

func (s *Sink) addToBatch(ins *insight.NutritionInsight) {
	s.batchMu.Lock()
	s.batch = append(s.batch, ins)
	shouldFlush := len(s.batch) >= s.batchSize
	s.batchMu.Unlock()

	if shouldFlush {
		s.flushBatch()
	}
}

func (s *Sink) flushBatch() {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	batch := s.batch
	s.batch = make([]*insight.NutritionInsight, 0, s.batchSize)
	s.batchMu.Unlock()

	s.logger.Debug("flushing insights", "count", len(batch))

	for _, ins := range batch {
		if err := s.writer.SaveInsight(s.ctx, ins); err != nil {
			s.logger.Error("insight write failed",
				"barcode", ins.Barcode,
				"error", err)
		}
	}
}
