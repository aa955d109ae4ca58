package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okonma/mediafire-go/internal/api"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Display account and storage status",
		RunE:  runStatus,
	}
}

func runStatus(_ *cobra.Command, _ []string) error {
	logger := buildLogger()
	ctx := context.Background()

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	// The two reads are independent; fetch them concurrently. The
	// dispatcher serializes the signed exchanges internally, so this
	// mainly overlaps response handling, and it exercises the rotation
	// discipline the way concurrent wrapper calls do.
	var (
		info  *api.UserInfo
		quota *api.Quota
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		info, err = client.GetUserInfo(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		quota, err = client.GetQuota(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	account := info.DisplayName
	if account == "" {
		account = info.Email
	}

	tier := "free"
	if info.Premium {
		tier = "premium"
	}

	fmt.Printf("Account:  %s (%s, %s)\n", account, info.Email, tier)
	fmt.Printf("Storage:  %s of %s used\n",
		humanize.Bytes(uint64(quota.Used)), humanize.Bytes(uint64(quota.Total)))

	if quota.Total > 0 {
		fmt.Printf("          %.1f%% full\n", float64(quota.Used)/float64(quota.Total)*100)
	}

	return nil
}
