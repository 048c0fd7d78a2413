package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-risk-zones/internal/activity"
	"github.com/mr1hm/go-risk-zones/internal/editor"
	"github.com/mr1hm/go-risk-zones/internal/models"
	"github.com/mr1hm/go-risk-zones/internal/refresh"
	"github.com/mr1hm/go-risk-zones/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the zone store and print new activity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := newStore()
		if err != nil {
			return err
		}

		surface := editor.NewHeadlessSurface(logger)
		ctrl := editor.New(surface, st, logger)
		defer ctrl.Close()

		w := newWatcher(ctrl, st, os.Stdout, logger)
		poller := refresh.NewPoller("zones", cfg.Editor.RefreshInterval, w.poll, logger)
		poller.Start(ctx)

		<-ctx.Done()
		poller.Stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watcher reloads the controller on each poll and prints log entries it
// has not seen before. The first successful poll only records history.
type watcher struct {
	ctrl   *editor.Controller
	st     *store.Store
	out    io.Writer
	logger *slog.Logger

	primed bool
	seen   []models.ZoneLog
}

func newWatcher(ctrl *editor.Controller, st *store.Store, out io.Writer, logger *slog.Logger) *watcher {
	return &watcher{ctrl: ctrl, st: st, out: out, logger: logger}
}

func (w *watcher) poll(ctx context.Context) error {
	if err := w.ctrl.Reload(ctx); err != nil {
		return err
	}

	logs := w.st.Logs()
	if !w.primed {
		w.primed = true
		w.seen = logs
		fmt.Fprintf(w.out, "Watching %d active zone(s), %d log entries\n", w.st.ActiveCount(), len(logs))
		return nil
	}

	for _, e := range activity.NewEntries(w.seen, logs) {
		fmt.Fprintf(w.out, "%s  %-8s  %s  by %s  %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.ZoneName, e.Officer, e.Details)
	}
	w.seen = logs

	w.logger.Debug("zones refreshed", "active", w.st.ActiveCount(), "logs", len(logs))
	return nil
}
