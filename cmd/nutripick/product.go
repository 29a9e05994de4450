package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nutripick/nutripick/internal/detector"
	"github.com/nutripick/nutripick/internal/insight"
	"github.com/nutripick/nutripick/internal/output"
	"github.com/nutripick/nutripick/internal/products"
)

var productWithDetections bool

var productCmd = &cobra.Command{
	Use:   "product <barcode>",
	Short: "Inspect a product's photo evidence",
	Long: `Fetch a product's main language and uploaded photos from the product
API, optionally enriched with object-detection results per photo.

This shows the context evaluation would run against, minus the OCR-derived
mentions which only exist in prediction dumps.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		barcode := args[0]

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		cfg, err := getConfig()
		if err != nil {
			return err
		}

		client := products.NewClient(cfg.Products.BaseURL)
		product, err := client.GetProduct(ctx, barcode)
		if err != nil {
			if errors.Is(err, products.ErrProductNotFound) {
				return fmt.Errorf("product %s not found", barcode)
			}
			return fmt.Errorf("failed to fetch product: %w", err)
		}

		pc := insight.ProductContext{
			Barcode:      product.Barcode,
			MainLanguage: product.MainLanguage,
		}
		for _, id := range product.ImageIDs {
			pc.Images = append(pc.Images, insight.ImageRecord{ImageID: id})
		}

		if productWithDetections {
			det := detector.NewClient(cfg.Detector.BaseURL)
			for i := range pc.Images {
				img := &pc.Images[i]
				detections, err := det.ListDetections(ctx, barcode, img.ImageID)
				if err != nil {
					logger.Warn("failed to fetch detections",
						"barcode", barcode, "image_id", img.ImageID, "error", err)
					continue
				}
				img.Detections = detections
			}
		}

		return output.Print(pc)
	},
}

func init() {
	productCmd.Flags().BoolVar(&productWithDetections, "detections", false,
		"Include object-detection results per photo")

	rootCmd.AddCommand(productCmd)
}
