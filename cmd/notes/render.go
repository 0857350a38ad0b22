package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/vango-dev/notes/internal/errors"
	"github.com/vango-dev/notes/pkg/export"
	"github.com/vango-dev/notes/pkg/notes"
	"github.com/vango-dev/notes/pkg/render"
)

// maxSnapshotSize bounds a rendered page written to disk.
const maxSnapshotSize = 16 << 20

func renderCmd(g *globals) *cobra.Command {
	var (
		out     string
		toDir   bool
		toS3    bool
		presign time.Duration
		prune   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch the notes and render the index page once",
		Long: `Fetch the notes, render the index view and write the page as HTML.

The page goes to stdout unless --out, --dir or --s3 is given. --dir and
--s3 write a timestamped snapshot and can prune older ones.

Examples:
  notes render > index.html
  notes render --out site/index.html
  notes render --dir --prune=168h
  notes render --s3 --presign=1h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := g.renderPage(ctx)
			if err != nil {
				return err
			}

			switch {
			case toS3:
				return g.exportS3(ctx, snap, presign, prune)
			case toDir:
				return g.exportDir(ctx, snap, prune)
			case out != "":
				if err := os.WriteFile(out, snap.Body, 0o644); err != nil {
					return errors.New("N070").WithDetail(out).Wrap(err)
				}
				success("Wrote %s", out)
				return nil
			default:
				_, err := cmd.OutOrStdout().Write(snap.Body)
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the page to this file")
	cmd.Flags().BoolVar(&toDir, "dir", false, "Write a timestamped snapshot to export.dir")
	cmd.Flags().BoolVar(&toS3, "s3", false, "Upload a timestamped snapshot to export.bucket")
	cmd.Flags().DurationVar(&presign, "presign", 0, "Print a presigned GET URL valid this long (with --s3)")
	cmd.Flags().DurationVar(&prune, "prune", 0, "Delete snapshots older than this after writing")
	cmd.MarkFlagsMutuallyExclusive("out", "dir", "s3")

	return cmd
}

// renderPage mounts the UI, waits for the note list and renders the page.
func (g *globals) renderPage(ctx context.Context) (export.Snapshot, error) {
	a, err := g.newApp(ctx)
	if err != nil {
		return export.Snapshot{}, err
	}
	defer a.close()

	a.sched.Mount()
	a.binder.LoadNotes(ctx)
	a.binder.Wait()
	a.sched.Drain()

	if msg, ok := a.state.Peek(notes.KeyNotesError).(string); ok && msg != "" {
		return export.Snapshot{}, errors.New("N021").WithDetail(msg)
	}

	snap, err := export.Render(export.TimestampedName("index.html", time.Now()), render.PageData{
		Body:    a.sched.Tree(),
		Title:   g.cfg.Mount.Title,
		MountID: g.cfg.Mount.ID,
	})
	if err != nil {
		return export.Snapshot{}, errors.New("N060").Wrap(err)
	}
	return snap, nil
}

func (g *globals) exportDir(ctx context.Context, snap export.Snapshot, prune time.Duration) error {
	sink, err := export.NewDiskSink(g.cfg.Export.Dir, maxSnapshotSize, g.logger)
	if err != nil {
		return errors.New("N070").WithDetail(g.cfg.Export.Dir).Wrap(err)
	}
	return g.export(ctx, sink, snap, prune, "N070")
}

func (g *globals) exportS3(ctx context.Context, snap export.Snapshot, presign, prune time.Duration) error {
	if g.cfg.Export.Bucket == "" {
		return errors.New("N090").WithDetail("--s3 needs export.bucket or NOTES_EXPORT_BUCKET")
	}
	client := export.NewS3Client(export.S3Options{
		Region:   g.cfg.Export.Region,
		Endpoint: g.cfg.Export.Endpoint,
	})
	sink := export.NewS3Sink(client, g.cfg.Export.Bucket, g.cfg.Export.Prefix, g.logger)
	if presign > 0 {
		sink = sink.WithPresigner(s3.NewPresignClient(client), presign)
	}
	return g.export(ctx, sink, snap, prune, "N071")
}

func (g *globals) export(ctx context.Context, sink export.Sink, snap export.Snapshot, prune time.Duration, code string) error {
	loc, err := sink.Put(ctx, snap)
	if err != nil {
		return errors.New(code).WithDetail(snap.Name).Wrap(err)
	}
	success("Wrote %s", loc)

	if prune > 0 {
		n, err := sink.Prune(ctx, prune)
		if err != nil {
			return errors.New(code).WithDetail("prune").Wrap(err)
		}
		if n > 0 {
			info("Pruned %d snapshot(s) older than %s", n, prune)
		}
	}
	return nil
}
