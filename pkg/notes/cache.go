package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/vango-dev/notes/pkg/telemetry"
)

const (
	listKey       = "notes/list"
	notePrefix    = "notes/id/"
	cacheDirPerms = 0o750
)

// Cache is a Source that keeps an offline copy of what its upstream
// returns. Reads go upstream first; when the upstream fails with anything
// other than a client error, the last stored copy is returned instead.
type Cache struct {
	upstream Source
	db       *badger.DB
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

var _ Source = (*Cache)(nil)

// CacheConfig configures OpenCache.
type CacheConfig struct {
	// Dir is the badger directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps the cache in memory only.
	InMemory bool

	Logger  *slog.Logger
	Metrics *telemetry.Metrics
}

// badgerLogger adapts slog to badger's logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenCache opens the cache in front of upstream. The caller must Close it.
func OpenCache(upstream Source, cfg CacheConfig) (*Cache, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, errors.New("notes: cache directory is required")
		}
		if err := os.MkdirAll(cfg.Dir, cacheDirPerms); err != nil {
			return nil, fmt.Errorf("notes: create cache directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithNumVersionsToKeep(1).WithLogger(badgerLogger{cfg.Logger.With("component", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("notes: open cache: %w", err)
	}
	return &Cache{
		upstream: upstream,
		db:       db,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ListNotes returns the upstream list and stores it, or the stored list if
// the upstream is unavailable.
func (c *Cache) ListNotes(ctx context.Context) ([]Note, error) {
	ns, err := c.upstream.ListNotes(ctx)
	if err == nil {
		c.store(func(txn *badger.Txn) error {
			if err := put(txn, listKey, ns); err != nil {
				return err
			}
			for _, n := range ns {
				if err := put(txn, noteKey(n.ID), n); err != nil {
					return err
				}
			}
			return nil
		})
		return ns, nil
	}
	if !fallback(err) {
		return nil, err
	}

	var cached []Note
	if ok := c.load(listKey, &cached); !ok {
		return nil, fmt.Errorf("%w: %w", ErrNotCached, err)
	}
	c.logger.WarnContext(ctx, "notes: serving cached list", "error", err, "count", len(cached))
	return cached, nil
}

// GetNote returns the upstream note and stores it, or the stored note if
// the upstream is unavailable.
func (c *Cache) GetNote(ctx context.Context, id int64) (*Note, error) {
	n, err := c.upstream.GetNote(ctx, id)
	if err == nil {
		c.store(func(txn *badger.Txn) error { return put(txn, noteKey(id), n) })
		return n, nil
	}
	if !fallback(err) {
		return nil, err
	}

	var cached Note
	if ok := c.load(noteKey(id), &cached); !ok {
		return nil, fmt.Errorf("%w: %w", ErrNotCached, err)
	}
	c.logger.WarnContext(ctx, "notes: serving cached note", "id", id, "error", err)
	return &cached, nil
}

// CreateNote creates the note upstream. Creating is never served offline.
// The stored list is dropped so the next read cannot return it without the
// new note.
func (c *Cache) CreateNote(ctx context.Context, in NoteInput) (*Note, error) {
	n, err := c.upstream.CreateNote(ctx, in)
	if err != nil {
		return nil, err
	}
	c.store(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(listKey)); err != nil {
			return err
		}
		return put(txn, noteKey(n.ID), n)
	})
	return n, nil
}

// Cached returns the stored list without contacting the upstream.
func (c *Cache) Cached() ([]Note, bool) {
	var cached []Note
	ok := c.load(listKey, &cached)
	return cached, ok
}

func (c *Cache) store(fn func(txn *badger.Txn) error) {
	if err := c.db.Update(fn); err != nil {
		c.logger.Warn("notes: cache write failed", "error", err)
	}
}

func (c *Cache) load(key string, out any) bool {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	switch {
	case err == nil:
		c.metrics.CacheLookup("hit")
		return true
	case errors.Is(err, badger.ErrKeyNotFound):
		c.metrics.CacheLookup("miss")
	default:
		c.metrics.CacheLookup("error")
		c.logger.Warn("notes: cache read failed", "key", key, "error", err)
	}
	return false
}

func put(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

func noteKey(id int64) string {
	return notePrefix + strconv.FormatInt(id, 10)
}

// fallback reports whether err means the upstream is unavailable rather
// than that it answered no.
func fallback(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if _, ok := IsValidation(err); ok {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}
