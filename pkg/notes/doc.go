// Package notes is the data source views read notes from.
//
// Source is the interface the rest of the module depends on. Client talks
// to the notes HTTP API, Cache keeps an offline copy of what Client returns,
// and Binder runs fetches off the UI goroutine and writes their results
// into a reactive store:
//
//	client := notes.NewClient("http://localhost:8000/api", notes.WithToken(token))
//	binder := notes.NewBinder(client, state, sched)
//	binder.LoadNotes(ctx)
//
// The store keys Binder writes are notes, notesLoading and notesError for
// the list, note for a single note, and validationErrors after a rejected
// create.
package notes
