package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/vango-dev/notes/pkg/render"
)

// ContentTypeHTML is the content type of rendered pages.
const ContentTypeHTML = "text/html; charset=utf-8"

var (
	// ErrInvalidName is returned for empty names and names that escape
	// the sink root.
	ErrInvalidName = errors.New("export: invalid snapshot name")

	// ErrTooLarge is returned when a snapshot exceeds the sink's size limit.
	ErrTooLarge = errors.New("export: snapshot too large")
)

// Snapshot is a rendered document ready to store.
type Snapshot struct {
	Name        string
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Sink persists snapshots.
type Sink interface {
	// Put stores snap and returns where it can be read from.
	Put(ctx context.Context, snap Snapshot) (location string, err error)

	// Prune removes snapshots older than maxAge and returns how many
	// were removed.
	Prune(ctx context.Context, maxAge time.Duration) (int, error)
}

// Render renders page into a snapshot called name.
func Render(name string, page render.PageData) (Snapshot, error) {
	var buf bytes.Buffer
	if err := render.WritePage(&buf, page); err != nil {
		return Snapshot{}, fmt.Errorf("export: render %s: %w", name, err)
	}
	return Snapshot{
		Name:        name,
		ContentType: ContentTypeHTML,
		Body:        buf.Bytes(),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// TimestampedName returns base with t inserted before the extension, as in
// "index-20260102T150405Z.html".
func TimestampedName(base string, t time.Time) string {
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + t.UTC().Format("20060102T150405Z") + ext
}

// cleanName validates a slash-separated snapshot name.
func cleanName(name string) (string, error) {
	if name == "" || strings.Contains(name, "\\") {
		return "", ErrInvalidName
	}
	clean := path.Clean("/" + name)[1:]
	if clean == "" || clean != strings.TrimPrefix(name, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}
