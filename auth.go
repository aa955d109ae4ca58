package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/okonma/mediafire-go/internal/api"
	"github.com/okonma/mediafire-go/internal/sessionfile"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Authenticate and save a session",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLogin,
	}

	cmd.Flags().String("password", "", "password (falls back to MEDIAFIRE_PASSWORD)")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session",
		RunE:  runLogout,
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Display the authenticated account",
		RunE:  runWhoami,
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	logger := buildLogger()
	ctx := context.Background()

	email := cfg.Email
	if len(args) > 0 {
		email = args[0]
	}

	if email == "" {
		return fmt.Errorf("no email given: pass one as an argument or set it in the config")
	}

	if cfg.AppID == "" {
		return fmt.Errorf("no app_id configured: set app_id in the config or MEDIAFIRE_APP_ID")
	}

	password, _ := cmd.Flags().GetString("password") //nolint:errcheck // flag is registered
	if password == "" {
		password = os.Getenv("MEDIAFIRE_PASSWORD")
	}

	if password == "" {
		return fmt.Errorf("no password given: use --password or MEDIAFIRE_PASSWORD")
	}

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	if err := client.Login(ctx, email, password); err != nil {
		return err
	}

	if err := saveSession(client); err != nil {
		return err
	}

	statusf("Logged in as %s.\n", email)

	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	logger := buildLogger()

	if err := sessionfile.Remove(cfg.SessionPath); err != nil {
		return err
	}

	logger.Info("session file removed", slog.String("path", cfg.SessionPath))
	statusf("Logged out.\n")

	return nil
}

func runWhoami(_ *cobra.Command, _ []string) error {
	logger := buildLogger()
	ctx := context.Background()

	client, err := newClient(logger)
	if err != nil {
		return err
	}
	defer persistSession(client, logger)

	info, err := client.GetUserInfo(ctx)
	if err != nil {
		return err
	}

	account := info.DisplayName
	if account == "" {
		account = info.Email
	}

	fmt.Printf("%s (%s)\n", account, info.Email)

	return nil
}

// persistSession rewrites the session file after a command. This must
// run even when the command failed: the server may have rotated the
// secret on an error envelope, and a stale file would desynchronize the
// next invocation permanently.
func persistSession(c *api.Client, logger *slog.Logger) {
	if !c.Store().Active() {
		return
	}

	if err := saveSession(c); err != nil {
		logger.Error("persisting session failed; next invocation may need re-login",
			slog.String("error", err.Error()),
		)
	}
}
