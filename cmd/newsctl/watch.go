package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"news_sync/internal/cache"
	"news_sync/internal/domain"
	"news_sync/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the home and saved views live and print every change",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := requireSession()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		printer := &changePrinter{out: cmd.OutOrStdout()}

		home := svc.NewHomeView(printer.print)
		if err := home.SetCategory(flagCategory); err != nil {
			return err
		}
		if err := home.Focus(ctx); err != nil {
			return err
		}
		defer home.Blur()

		saved := svc.NewSavedView(printer.print)
		if err := saved.Focus(ctx); err != nil {
			return err
		}
		defer saved.Blur()

		if !home.Live() {
			current.logger.Warn("live channel unavailable, relying on periodic refetch")
		}

		sched := scheduler.NewScheduler(current.store, current.cfg.Cache.RefetchInterval, current.logger)
		current.logger.Info("watching",
			"category", flagCategory,
			"transport", current.cfg.Realtime.Transport,
			"refetch_interval", current.cfg.Cache.RefetchInterval,
		)
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().Int64Var(&flagCategory, "category", 0, "category id, 0 for all")
}

// changePrinter serializes listener output from concurrent fetches.
type changePrinter struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *changePrinter) print(e cache.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case e.FetchState == cache.Failed:
		fmt.Fprintf(p.out, "%s: fetch failed: %v\n", e.Key, e.Err)
	case !e.HasValue:
		return
	default:
		fmt.Fprintf(p.out, "%s: %s (%s)\n", e.Key, summarize(e.Value), e.Status)
	}
}

func summarize(v any) string {
	switch v := v.(type) {
	case []domain.NewsItem:
		return fmt.Sprintf("%d items", len(v))
	case domain.PagedNews:
		return fmt.Sprintf("%d items in %d pages", len(v.Items()), len(v.Pages))
	default:
		return fmt.Sprintf("%v", v)
	}
}
