package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okonma/mediafire-go/internal/history"
)

const defaultHistoryLimit = 20

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently uploaded files",
		RunE:  runHistory,
	}

	cmd.Flags().Int("limit", defaultHistoryLimit, "maximum entries to show")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()
	ctx := context.Background()

	limit, _ := cmd.Flags().GetInt("limit") //nolint:errcheck // flag is registered

	store, err := history.Open(cfg.HistoryPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		statusf("No uploads recorded.\n")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-15s  %9s  %s\n",
			e.UploadedAt.Format("2006-01-02 15:04"),
			e.QuickKey,
			humanize.Bytes(uint64(e.Size)),
			e.Filename,
		)
	}

	return nil
}
