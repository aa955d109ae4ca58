package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [folder-key]",
		Short: "List files and folders",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLs,
	}

	cmd.Flags().Bool("long", false, "show sizes, privacy, and timestamps")

	return cmd
}

func newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <quickkey>",
		Short: "Display file metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  runStat,
	}
}

func newMkdirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkdir <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE:  runMkdir,
	}

	cmd.Flags().String("parent", "", "parent folder key (root when omitted)")

	return cmd
}

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <quickkey>",
		Short: "Delete a file (moves it to the trash)",
		Args:  cobra.ExactArgs(1),
		RunE:  runRm,
	}

	cmd.Flags().Bool("purge", false, "permanently delete instead of trashing")
	cmd.Flags().Bool("folder", false, "the key names a folder")

	return cmd
}

func newMvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv <quickkey> <folder-key>",
		Short: "Move a file into a folder",
		Args:  cobra.ExactArgs(2),
		RunE:  runMv,
	}

	cmd.Flags().Bool("folder", false, "the first key names a folder")

	return cmd
}

func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <quickkey> <new-name>",
		Short: "Rename a file",
		Args:  cobra.ExactArgs(2),
		RunE:  runRename,
	}

	cmd.Flags().Bool("folder", false, "the key names a folder")

	return cmd
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search for files and folders by name",
		Long: `Search for entries fuzzily matching a name. The query is reduced to
keywords (split on punctuation, short words dropped) before it is sent,
so "My Vacation (2019).tar.gz" finds anything matching "vacation 2019 tar".`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().String("folder", "", "restrict the search to a folder key")

	return cmd
}

func runLs(cmd *cobra.Command, args []string) error {
	logger := buildLogger()
	ctx := context.Background()

	folderKey := ""
	if len(args) > 0 {
		folderKey = args[0]
	}

	long, _ := cmd.Flags().GetBool("long") //nolint:errcheck // flag is registered

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	folders, err := client.ListFolders(ctx, folderKey)
	if err != nil {
		return err
	}

	files, err := client.ListFiles(ctx, folderKey)
	if err != nil {
		return err
	}

	printListing(folders, files, long)

	return nil
}

func runStat(_ *cobra.Command, args []string) error {
	logger := buildLogger()
	ctx := context.Background()

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	info, err := client.GetFileInfo(ctx, args[0])
	if err != nil {
		return err
	}

	printFileInfo(info)

	return nil
}

func runMkdir(cmd *cobra.Command, args []string) error {
	logger := buildLogger()
	ctx := context.Background()

	parent, _ := cmd.Flags().GetString("parent") //nolint:errcheck // flag is registered

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	folderKey, err := client.CreateFolder(ctx, parent, args[0])
	if err != nil {
		return err
	}

	fmt.Println(folderKey)

	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	logger := buildLogger()
	ctx := context.Background()

	purge, _ := cmd.Flags().GetBool("purge")   //nolint:errcheck // flag is registered
	folder, _ := cmd.Flags().GetBool("folder") //nolint:errcheck // flag is registered

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	key := args[0]

	switch {
	case folder && purge:
		err = client.PurgeFolder(ctx, key)
	case folder:
		err = client.DeleteFolder(ctx, key)
	case purge:
		err = client.PurgeFile(ctx, key)
	default:
		err = client.DeleteFile(ctx, key)
	}

	if err != nil {
		return err
	}

	statusf("Deleted %s.\n", key)

	return nil
}

func runMv(cmd *cobra.Command, args []string) error {
	logger := buildLogger()
	ctx := context.Background()

	folder, _ := cmd.Flags().GetBool("folder") //nolint:errcheck // flag is registered

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	if folder {
		err = client.MoveFolder(ctx, args[0], args[1])
	} else {
		err = client.MoveFile(ctx, args[0], args[1])
	}

	if err != nil {
		return err
	}

	statusf("Moved %s.\n", args[0])

	return nil
}

func runRename(cmd *cobra.Command, args []string) error {
	logger := buildLogger()
	ctx := context.Background()

	folder, _ := cmd.Flags().GetBool("folder") //nolint:errcheck // flag is registered

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	if folder {
		err = client.RenameFolder(ctx, args[0], args[1])
	} else {
		err = client.RenameFile(ctx, args[0], args[1])
	}

	if err != nil {
		return err
	}

	statusf("Renamed %s.\n", args[0])

	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := buildLogger()
	ctx := context.Background()

	folderKey, _ := cmd.Flags().GetString("folder") //nolint:errcheck // flag is registered

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	results, err := client.SearchByName(ctx, folderKey, args[0])
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Printf("%-6s  %-15s  %s\n", r.Type, r.Key, r.Name)
	}

	return nil
}
