// Package jobs runs product evaluations in parallel. Evaluation is a pure
// function of its inputs, so products can be processed one goroutine each
// with no cross-product synchronization; within a product the image scan
// stays sequential because selection is order-dependent.
package jobs

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/nutripick/nutripick/internal/insight"
)

// Result pairs a product barcode with its evaluation outcome. Insight is
// nil when the product has no qualifying nutrition-table photo, which is
// the common case, not a failure.
type Result struct {
	Barcode string                    `json:"barcode" yaml:"barcode"`
	Insight *insight.NutritionInsight `json:"insight,omitempty" yaml:"insight,omitempty"`
}

// Pool evaluates batches of products across a fixed set of workers.
// All workers pull from a single shared queue - natural load balancing via
// Go channel semantics.
type Pool struct {
	workers int
	logger  *slog.Logger

	evaluated atomic.Int64
	matched   atomic.Int64
}

// PoolConfig configures a new evaluation pool.
type PoolConfig struct {
	Workers int // worker goroutines (default: runtime.NumCPU())
	Logger  *slog.Logger
}

// NewPool creates a new evaluation pool.
func NewPool(cfg PoolConfig) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		workers: workers,
		logger:  logger.With("pool", "evaluate", "workers", workers),
	}
}

// RunBatch evaluates every product and returns one Result per product, in
// input order. It blocks until the batch completes or ctx is cancelled;
// on cancellation the results for unprocessed products have nil insights
// and ctx.Err() is returned.
func (p *Pool) RunBatch(ctx context.Context, products []insight.ProductContext) ([]Result, error) {
	results := make([]Result, len(products))
	for i, product := range products {
		results[i] = Result{Barcode: product.Barcode}
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				product := products[i]
				ins := insight.Evaluate(product)
				p.evaluated.Add(1)
				if ins != nil {
					p.matched.Add(1)
					p.logger.Debug("insight generated",
						"barcode", product.Barcode,
						"image_id", ins.ImageID,
						"language", ins.Language,
						"priority", ins.Priority,
						"cropped", ins.BoundingBox != nil)
				}
				results[i].Insight = ins
			}
		}()
	}

	var err error
feed:
	for i := range products {
		select {
		case indexes <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	p.logger.Info("batch complete",
		"products", len(products),
		"insights", p.matched.Load(),
		"evaluated", p.evaluated.Load())
	return results, err
}

// Evaluated returns the number of products processed over the pool's
// lifetime.
func (p *Pool) Evaluated() int64 { return p.evaluated.Load() }

// Matched returns the number of insights generated over the pool's
// lifetime.
func (p *Pool) Matched() int64 { return p.matched.Load() }
