package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nutripick/nutripick/internal/output"
	"github.com/nutripick/nutripick/internal/store"
)

var insightsLimit int

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Inspect persisted insights",
}

var insightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted insights",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.ListInsights(ctx, insightsLimit)
		if err != nil {
			return fmt.Errorf("failed to list insights: %w", err)
		}

		return output.Print(rows)
	},
}

var insightsGetCmd = &cobra.Command{
	Use:   "get <barcode>",
	Short: "Show the persisted insight for a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		row, err := st.GetInsight(ctx, args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no insight for product %s", args[0])
			}
			return fmt.Errorf("failed to get insight: %w", err)
		}

		return output.Print(row)
	},
}

// openStore connects to the configured Postgres database.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	st, err := store.New(cmd.Context(), cfg.DSN(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return st, nil
}

func init() {
	insightsListCmd.Flags().IntVar(&insightsLimit, "limit", 50, "Maximum number of insights to list")

	insightsCmd.AddCommand(insightsListCmd)
	insightsCmd.AddCommand(insightsGetCmd)
	rootCmd.AddCommand(insightsCmd)
}
