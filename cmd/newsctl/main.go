package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"news_sync/internal/config"
	"news_sync/internal/service"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagConfig string
	current    *app
)

var rootCmd = &cobra.Command{
	Use:           "newsctl",
	Short:         "Command-line client for the university news feed",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), flagConfig, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		current = a
		if _, _, err := a.service.Resume(cmd.Context()); err != nil {
			return fmt.Errorf("resume session: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			current.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "newsctl %s (commit: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath(), "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(commentsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(stateCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if current != nil {
			current.Close()
		}
		os.Exit(1)
	}
}

// requireSession returns the service once a signed-in session exists.
func requireSession() (*service.Service, error) {
	if _, ok := current.service.Session(); !ok {
		return nil, fmt.Errorf("%w: run newsctl login first", service.ErrNoCredential)
	}
	return current.service, nil
}
