// Package errors provides structured, actionable errors for the notes CLI.
//
// Each error has a registered code mapping to a category, a short message
// and a longer explanation. Commands attach the failing operation's detail
// and a hint, wrap the cause, and print the result with Format:
//
//	err := errors.New("N020").
//	    WithDetail("GET /api/notes returned 401").
//	    WithSuggestion("Run `notes render --token <token>` or set api.token in notes.yaml").
//	    Wrap(cause)
//
//	errors.PrintError(err)
//	// ERROR N020: Notes API rejected the credentials
//	//
//	//   GET /api/notes returned 401
//	//
//	//   Hint: Run `notes render --token <token>` or set api.token in notes.yaml
//
// # Categories
//
//   - config: loading or validating notes.json / notes.yaml
//   - api: talking to the notes backend
//   - cache: the offline note cache
//   - render: producing HTML from a view
//   - export: writing snapshots to files or S3
//   - live: the live preview server
//   - cli: command-line usage
//
// Library packages return plain wrapped errors; this package is for the
// edges that talk to a person.
package errors
