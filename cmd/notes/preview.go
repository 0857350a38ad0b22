package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/notes/internal/config"
	"github.com/vango-dev/notes/internal/errors"
	"github.com/vango-dev/notes/pkg/live"
	"github.com/vango-dev/notes/pkg/render"
	"github.com/vango-dev/notes/pkg/scheduler"
	"github.com/vango-dev/notes/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

func previewCmd(g *globals) *cobra.Command {
	var (
		port int
		host string
		poll time.Duration
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve a live preview of the notes app",
		Long: `Serve the notes app and stream every render pass to connected browsers.

The note list is refetched every --poll interval; each change patches the
page in place over a WebSocket.

Examples:
  notes preview
  notes preview --port=8080 --poll=2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				g.cfg.Preview.Port = port
			}
			if host != "" {
				g.cfg.Preview.Host = host
			}
			if cmd.Flags().Changed("poll") {
				g.cfg.Preview.Poll = config.Duration(poll)
			}
			return g.runPreview(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().DurationVar(&poll, "poll", 0, "Refetch interval, 0 disables polling (default from config)")

	return cmd
}

func (g *globals) runPreview(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := g.newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	hub := live.New(a.sched,
		live.WithPage(render.PageData{Title: g.cfg.Mount.Title}),
		live.WithLogger(g.logger),
		live.WithMetrics(telemetry.Default()),
	)
	defer hub.Close()

	a.sched.Mount()
	a.binder.LoadNotes(ctx)

	srv := &http.Server{
		Addr:              g.cfg.PreviewAddress(),
		Handler:           hub,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return a.sched.Run(ctx)
	})

	eg.Go(func() error {
		success("Preview at %s", g.cfg.PreviewURL())
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.New("N080").WithDetail(srv.Addr).Wrap(err)
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if every := g.cfg.Preview.Poll.Std(); every > 0 {
		eg.Go(func() error {
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if !a.sched.Dispatch(func() { a.binder.LoadNotes(ctx) }) {
						warn("Poll skipped, render loop busy")
					}
				}
			}
		})
	}

	err = eg.Wait()
	a.binder.Wait()
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, scheduler.ErrStopped) {
		return nil
	}
	return err
}
