package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// metaSuffix names the sidecar file recording a snapshot's metadata.
const metaSuffix = ".meta.json"

// DiskSink writes snapshots below a directory.
type DiskSink struct {
	dir     string
	maxSize int64
	logger  *slog.Logger
}

type diskMeta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskSink creates dir if needed. maxSize of 0 means no limit.
func NewDiskSink(dir string, maxSize int64, logger *slog.Logger) (*DiskSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DiskSink{dir: dir, maxSize: maxSize, logger: logger}, nil
}

// Put writes the snapshot through a temporary file so readers never see a
// partial page.
func (s *DiskSink) Put(_ context.Context, snap Snapshot) (string, error) {
	name, err := cleanName(snap.Name)
	if err != nil {
		return "", err
	}
	if s.maxSize > 0 && int64(len(snap.Body)) > s.maxSize {
		return "", ErrTooLarge
	}

	target := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".snapshot-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(snap.Body); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", err
	}

	meta, err := json.Marshal(diskMeta{
		ContentType: snap.ContentType,
		Size:        int64(len(snap.Body)),
		CreatedAt:   snap.CreatedAt,
	})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target+metaSuffix, meta, 0o644); err != nil {
		return "", err
	}

	s.logger.Info("snapshot written", "path", target, "bytes", len(snap.Body))
	return target, nil
}

// Prune removes snapshots whose recorded creation time, or modification
// time when the sidecar is missing, is older than maxAge.
func (s *DiskSink) Prune(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, metaSuffix) || strings.HasPrefix(d.Name(), ".snapshot-") {
			return nil
		}
		created, ok := s.createdAt(p)
		if !ok {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			created = info.ModTime()
		}
		if created.Before(cutoff) {
			if err := os.Remove(p); err != nil {
				return err
			}
			_ = os.Remove(p + metaSuffix)
			removed++
		}
		return nil
	})
	if removed > 0 {
		s.logger.Info("snapshots pruned", "dir", s.dir, "removed", removed)
	}
	return removed, err
}

func (s *DiskSink) createdAt(p string) (time.Time, bool) {
	data, err := os.ReadFile(p + metaSuffix)
	if err != nil {
		return time.Time{}, false
	}
	var meta diskMeta
	if err := json.Unmarshal(data, &meta); err != nil || meta.CreatedAt.IsZero() {
		return time.Time{}, false
	}
	return meta.CreatedAt, true
}
