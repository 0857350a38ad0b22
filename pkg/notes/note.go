package notes

import (
	"context"
	"time"
)

// Note is a note as the API returns it.
type Note struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Note      string     `json:"note"`
	UserID    int64      `json:"user_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Map returns the note as the plain map views read from a store.
func (n Note) Map() map[string]any {
	return map[string]any{
		"id":      n.ID,
		"title":   n.Title,
		"note":    n.Note,
		"user_id": n.UserID,
	}
}

// NoteInput is the payload for creating a note.
type NoteInput struct {
	Title  string `json:"title" validate:"required,max=200"`
	Note   string `json:"note" validate:"required"`
	UserID int64  `json:"user_id" validate:"required,gt=0"`
}

// Source provides notes.
type Source interface {
	ListNotes(ctx context.Context) ([]Note, error)
	GetNote(ctx context.Context, id int64) (*Note, error)
	CreateNote(ctx context.Context, in NoteInput) (*Note, error)
}

// Maps converts notes into the list form views read from a store.
func Maps(ns []Note) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = n.Map()
	}
	return out
}
