package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nutripick/nutripick/internal/config"
	"github.com/nutripick/nutripick/internal/detector"
	"github.com/nutripick/nutripick/internal/insight"
	"github.com/nutripick/nutripick/internal/jobs"
	"github.com/nutripick/nutripick/internal/notify"
	"github.com/nutripick/nutripick/internal/output"
	"github.com/nutripick/nutripick/internal/predictions"
	"github.com/nutripick/nutripick/internal/products"
	"github.com/nutripick/nutripick/internal/store"
	"github.com/nutripick/nutripick/internal/svcctx"
)

var (
	evaluateSave            bool
	evaluateWorkers         int
	evaluateFetchDetections bool
	evaluateMatchedOnly     bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <path>...",
	Short: "Evaluate prediction dump documents",
	Long: `Evaluate prediction dump documents and report nutrition image insights.

Each path is a prediction document (JSON) or a directory of them. Every
document describes one product: its barcode, main language, and per-image
evidence (nutrient mentions, name+value pairs, object detections).

Products are evaluated concurrently; at most one insight is generated per
product. Products whose photos don't qualify produce an empty result,
which is normal.

Examples:
  nutripick evaluate ./dumps
  nutripick evaluate product.json --save
  nutripick evaluate ./dumps --fetch-detections -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cleanup, err := setupServices(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		logger := svcctx.LoggerFrom(ctx)
		cfg := svcctx.ConfigFrom(ctx).Get()

		prods, err := loadProducts(args)
		if err != nil {
			return err
		}
		logger.Info("loaded prediction documents", "products", len(prods))

		if evaluateFetchDetections {
			fetchDetections(ctx, prods)
		}

		workers := evaluateWorkers
		if workers == 0 {
			workers = cfg.Evaluation.Workers
		}
		pool := jobs.NewPool(jobs.PoolConfig{
			Workers: workers,
			Logger:  logger,
		})

		results, err := pool.RunBatch(ctx, prods)
		if err != nil {
			return fmt.Errorf("evaluation failed: %w", err)
		}
		logger.Info("evaluation complete",
			"evaluated", pool.Evaluated(), "matched", pool.Matched())

		if evaluateSave {
			if err := saveResults(ctx, results); err != nil {
				return err
			}
		}

		if evaluateMatchedOnly {
			matched := results[:0]
			for _, r := range results {
				if r.Insight != nil {
					matched = append(matched, r)
				}
			}
			results = matched
		}

		return output.Print(results)
	},
}

// setupServices wires shared services into the context. The returned
// cleanup stops the sink (flushing pending writes) and closes the store.
func setupServices(ctx context.Context) (context.Context, func(), error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfgMgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := cfgMgr.Get()

	svcs := &svcctx.Services{
		Config:   cfgMgr,
		Products: products.NewClient(cfg.Products.BaseURL),
		Detector: detector.NewClient(cfg.Detector.BaseURL),
		Notifier: notify.New(cfg.Notify.WebhookURL, logger),
		Logger:   logger,
	}

	cleanup := func() {}
	if evaluateSave {
		st, err := store.New(ctx, cfg.DSN(), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := st.EnsureSchema(ctx); err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("failed to ensure schema: %w", err)
		}

		sink := store.NewSink(store.SinkConfig{
			Writer: st,
			Logger: logger,
		})
		sink.Start(ctx)

		svcs.Store = st
		svcs.Sink = sink
		cleanup = func() {
			sink.Stop()
			st.Close()
		}
	}

	return svcctx.WithServices(ctx, svcs), cleanup, nil
}

// loadProducts reads prediction documents from files and directories.
func loadProducts(paths []string) ([]insight.ProductContext, error) {
	var prods []insight.ProductContext
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			batch, err := predictions.LoadDir(path)
			if err != nil {
				return nil, err
			}
			prods = append(prods, batch...)
			continue
		}
		product, err := predictions.Load(path)
		if err != nil {
			return nil, err
		}
		prods = append(prods, product)
	}
	return prods, nil
}

// fetchDetections queries the object-detection service for images that
// carry no detections in their document. Fetch failures are logged and
// skipped - evaluation proceeds with whatever evidence is available.
func fetchDetections(ctx context.Context, prods []insight.ProductContext) {
	client := svcctx.DetectorFrom(ctx)
	logger := svcctx.LoggerFrom(ctx)

	for pi := range prods {
		p := &prods[pi]
		for ii := range p.Images {
			img := &p.Images[ii]
			if len(img.Detections) > 0 {
				continue
			}
			detections, err := client.ListDetections(ctx, p.Barcode, img.ImageID)
			if err != nil {
				logger.Warn("failed to fetch detections",
					"barcode", p.Barcode, "image_id", img.ImageID, "error", err)
				continue
			}
			img.Detections = detections
		}
	}
}

// saveResults queues generated insights on the batched sink and announces
// each one via the configured notifier.
func saveResults(ctx context.Context, results []jobs.Result) error {
	sink := svcctx.SinkFrom(ctx)
	notifier := svcctx.NotifierFrom(ctx)
	logger := svcctx.LoggerFrom(ctx)

	saved := 0
	for _, r := range results {
		if r.Insight == nil {
			continue
		}
		sink.Send(r.Insight)
		if err := notifier.NotifyInsightCreated(ctx, r.Insight); err != nil {
			logger.Warn("notification failed", "barcode", r.Barcode, "error", err)
		}
		saved++
	}

	sink.Flush()
	logger.Info("insights queued for persistence", "count", saved)
	return nil
}

func init() {
	evaluateCmd.Flags().BoolVar(&evaluateSave, "save", false, "Persist generated insights to Postgres")
	evaluateCmd.Flags().IntVar(&evaluateWorkers, "workers", 0, "Worker goroutines (default: config, then CPU count)")
	evaluateCmd.Flags().BoolVar(&evaluateFetchDetections, "fetch-detections", false,
		"Fetch detections from the object-detection service for images without any")
	evaluateCmd.Flags().BoolVar(&evaluateMatchedOnly, "matched-only", false,
		"Only print products that produced an insight")

	rootCmd.AddCommand(evaluateCmd)
}
