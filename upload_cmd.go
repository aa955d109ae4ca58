package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okonma/mediafire-go/internal/api"
	"github.com/okonma/mediafire-go/internal/history"
)

func newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <local-path>",
		Short: "Upload a file",
		Long: `Upload a file and wait for the server to confirm it. The upload is
submitted once and then polled until the server reports a permanent
quickkey, a file error, or the poll budget runs out. Confirmed uploads
are recorded in the local history database (see "history").`,
		Args: cobra.ExactArgs(1),
		RunE: runPut,
	}

	cmd.Flags().String("folder", "", "destination folder key (root when omitted)")
	cmd.Flags().String("name", "", "remote filename (local basename when omitted)")

	return cmd
}

func runPut(cmd *cobra.Command, args []string) error {
	logger := buildLogger()
	ctx := context.Background()

	folderKey, _ := cmd.Flags().GetString("folder") //nolint:errcheck // flag is registered
	name, _ := cmd.Flags().GetString("name")        //nolint:errcheck // flag is registered

	localPath := args[0]
	if name == "" {
		name = filepath.Base(localPath)
	}

	payload, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", localPath, err)
	}

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	opts := api.UploadOptions{
		FolderKey:       folderKey,
		PollInterval:    cfg.PollInterval(),
		MaxPollAttempts: cfg.PollMaxAttempts,
	}

	result, err := client.Upload(ctx, payload, name, opts)
	if err != nil {
		return err
	}

	recordUpload(ctx, logger, result, name, payload)

	fmt.Println(result.QuickKey)

	return nil
}

// recordUpload appends a confirmed upload to the local ledger. Ledger
// failures are logged, not returned — the upload itself succeeded and
// the quickkey is already on stdout.
func recordUpload(ctx context.Context, logger *slog.Logger, result *api.UploadResult, name string, payload []byte) {
	store, err := history.Open(cfg.HistoryPath, logger)
	if err != nil {
		logger.Warn("upload history unavailable", slog.String("error", err.Error()))
		return
	}
	defer store.Close()

	size := result.Size
	if size == 0 {
		size = int64(len(payload))
	}

	filename := result.Filename
	if filename == "" {
		filename = name
	}

	if err := store.Record(ctx, result.QuickKey, filename, size, api.ContentHash(payload)); err != nil {
		logger.Warn("recording upload history failed", slog.String("error", err.Error()))
	}
}
