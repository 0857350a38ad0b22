package notes

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/notes/pkg/reactive"
)

// Store keys written by Binder.
const (
	KeyNotes            = "notes"
	KeyNotesLoading     = "notesLoading"
	KeyNotesError       = "notesError"
	KeyNote             = "note"
	KeyNoteID           = "noteId"
	KeyValidationErrors = "validationErrors"
	KeyRoute            = "route"
)

// Dispatcher runs a function on the goroutine that owns the store.
// scheduler.Scheduler implements it.
type Dispatcher interface {
	Dispatch(fn func()) bool
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(fn func()) bool

// Dispatch implements Dispatcher.
func (f DispatchFunc) Dispatch(fn func()) bool {
	return f(fn)
}

// Inline is a Dispatcher that runs fn immediately on the calling goroutine.
var Inline Dispatcher = DispatchFunc(func(fn func()) bool {
	fn()
	return true
})

// Binder loads notes from a Source into a reactive store. Its methods are
// called on the store's goroutine; fetches run on their own goroutines and
// hand results back through the Dispatcher. Results are applied even if a
// later call has superseded them.
type Binder struct {
	src      Source
	store    *reactive.Store
	dispatch Dispatcher
	logger   *slog.Logger

	wg sync.WaitGroup
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithBinderLogger sets the logger.
func WithBinderLogger(logger *slog.Logger) BinderOption {
	return func(b *Binder) {
		b.logger = logger
	}
}

// NewBinder creates a binder writing into store.
func NewBinder(src Source, store *reactive.Store, d Dispatcher, opts ...BinderOption) *Binder {
	b := &Binder{
		src:      src,
		store:    store,
		dispatch: d,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Wait blocks until every fetch started so far has handed its result to
// the dispatcher.
func (b *Binder) Wait() {
	b.wg.Wait()
}

func (b *Binder) goFetch(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

func (b *Binder) apply(fn func()) {
	if !b.dispatch.Dispatch(fn) {
		b.logger.Warn("notes: result discarded, dispatcher refused it")
	}
}

// LoadNotes marks the list as loading and fetches it. On failure the list
// is left as it was and notesError holds the message.
func (b *Binder) LoadNotes(ctx context.Context) {
	b.store.Set(KeyNotesLoading, true)

	b.goFetch(func() {
		ns, err := b.src.ListNotes(ctx)
		b.apply(func() {
			if err != nil {
				b.logger.Error("notes: fetch failed", "error", err)
				b.store.Assign(map[string]any{
					KeyNotesLoading: false,
					KeyNotesError:   err.Error(),
				})
				return
			}
			b.store.Assign(map[string]any{
				KeyNotes:        Maps(ns),
				KeyNotesLoading: false,
				KeyNotesError:   nil,
			})
		})
	})
}

// LoadNote fetches one note into the note key. A failed fetch stores nil.
func (b *Binder) LoadNote(ctx context.Context, id int64) {
	b.store.Set(KeyNoteID, id)

	b.goFetch(func() {
		n, err := b.src.GetNote(ctx, id)
		b.apply(func() {
			if err != nil {
				b.logger.Error("notes: fetch note failed", "id", id, "error", err)
				b.store.Set(KeyNote, nil)
				return
			}
			b.store.Set(KeyNote, n.Map())
		})
	})
}

// CreateNote creates a note, then reloads the list and returns to the
// index route. Rejected input is stored under validationErrors.
func (b *Binder) CreateNote(ctx context.Context, in NoteInput) {
	if err := in.Validate(); err != nil {
		b.rejected(err)
		return
	}

	b.goFetch(func() {
		_, err := b.src.CreateNote(ctx, in)
		b.apply(func() {
			if err != nil {
				b.rejected(err)
				return
			}
			b.store.Assign(map[string]any{
				"title":             "",
				"note":              "",
				KeyValidationErrors: nil,
				KeyRoute:            "/",
			})
			b.LoadNotes(ctx)
		})
	})
}

func (b *Binder) rejected(err error) {
	if ve, ok := IsValidation(err); ok {
		fields := make(map[string]any, len(ve.Fields))
		for name, msgs := range ve.Fields {
			list := make([]any, len(msgs))
			for i, m := range msgs {
				list[i] = m
			}
			fields[name] = list
		}
		b.store.Set(KeyValidationErrors, fields)
		return
	}
	b.logger.Error("notes: create failed", "error", err)
	b.store.Set(KeyNotesError, err.Error())
}
