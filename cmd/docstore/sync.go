package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"

	storeevents "github.com/aretw0/docstore/pkg/adapters/lifecycle"
	"github.com/aretw0/docstore/pkg/core"
)

func newSyncCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replicate every collection of one store into another",
		Long: `Sync copies every document of every source collection into the target,
overwriting what is there. With --deletes (the default) target documents missing
from the source are removed; target-only collections are never touched.

The source is opened read-only. With --watch the command keeps running and
re-synchronizes on every change reported by the source, or every --interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceURI := c.v.GetString("source")
			if sourceURI == "" {
				sourceURI = c.v.GetString("store")
			}
			targetURI := c.v.GetString("target")
			if targetURI == "" {
				return errors.New("--target is required")
			}

			source, err := c.open(sourceURI, true)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer source.Close()

			target, err := c.open(targetURI, false)
			if err != nil {
				return fmt.Errorf("open target: %w", err)
			}
			defer target.Close()

			r := &syncRunner{
				sync:    core.NewSynchronizer(source, target, core.WithSyncLogger(c.logger)),
				deletes: c.v.GetBool("deletes"),
				out:     cmd.OutOrStdout(),
			}

			if !c.v.GetBool("watch") {
				err = r.once(cmd.Context())
			} else {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				err = r.watch(ctx, source, c.v.GetDuration("interval"))
			}

			if c.v.GetBool("metrics") {
				metrics.WritePrometheus(cmd.OutOrStdout(), false)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("source", "", "Source store URI (default: --store)")
	flags.String("target", "", "Target store URI")
	flags.Bool("deletes", true, "Delete target documents missing from the source")
	flags.Bool("watch", false, "Keep running and re-sync on changes")
	flags.Duration("interval", 0, "Re-sync period in watch mode (default: on source events)")
	flags.Bool("metrics", false, "Print metrics in Prometheus format when done")
	return cmd
}

type syncRunner struct {
	sync    *core.Synchronizer
	deletes bool
	out     io.Writer
}

func (r *syncRunner) once(ctx context.Context) error {
	report, err := r.sync.Synchronize(ctx, r.deletes)
	if err != nil {
		fmt.Fprintf(r.out, "Sync %s failed after %d written, %d deleted.\n", report.RunID, report.Written, report.Deleted)
		return err
	}
	fmt.Fprintf(r.out, "Sync %s: %d collections, %d written, %d deleted in %s.\n",
		report.RunID, report.Collections, report.Written, report.Deleted, report.Duration.Round(time.Millisecond))
	return nil
}

// watch syncs once, then again on every tick or source event until ctx ends.
// Failures in this mode are reported and the loop keeps going.
func (r *syncRunner) watch(ctx context.Context, source *core.DocumentManager, interval time.Duration) error {
	var trigger <-chan struct{}
	if interval > 0 {
		trigger = tick(ctx, interval)
	} else {
		w, ok := source.Adapter().(core.Watchable)
		if !ok {
			return fmt.Errorf("source cannot be watched, use --interval: %w", core.ErrNotWatchable)
		}
		events, err := w.Watch(ctx)
		if err != nil {
			return err
		}
		src := storeevents.NewSource(events)
		if err := src.Start(ctx); err != nil {
			return err
		}
		trigger = coalesce(src.Events())
	}

	if err := r.once(ctx); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-trigger:
			if !ok {
				return nil
			}
			if err := r.once(ctx); err != nil && ctx.Err() == nil {
				fmt.Fprintf(r.out, "Error: %v\n", err)
			}
		}
	}
}

func tick(ctx context.Context, interval time.Duration) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out
}

// coalesce turns a stream of events into at most one pending trigger, so a
// burst of changes costs a single run.
func coalesce[E any](events <-chan E) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range events {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out
}
