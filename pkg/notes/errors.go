package notes

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned when a note does not exist.
	ErrNotFound = errors.New("notes: not found")

	// ErrUnauthorized is returned when the API rejects the credentials.
	ErrUnauthorized = errors.New("notes: unauthorized")

	// ErrNotCached is returned by Cache when the upstream failed and there
	// is no offline copy.
	ErrNotCached = errors.New("notes: not cached")
)

// APIError is a non-2xx response from the notes API.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("notes: %s: %d %s", e.Op, e.Status, msg)
}

// Unwrap maps well-known statuses to the package sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// ValidationError lists per-field problems, either found locally before a
// request or returned by the API with status 422.
type ValidationError struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msg := e.Message
	if msg == "" {
		msg = "validation failed"
	}
	if len(names) == 0 {
		return "notes: " + msg
	}
	return fmt.Sprintf("notes: %s (%s)", msg, strings.Join(names, ", "))
}

// First returns the first message for field, or "".
func (e *ValidationError) First(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks v's validate tags and reports failures keyed by the
// field's JSON name.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Message: "The given data was invalid.", Fields: make(map[string][]string)}
	for _, fe := range verrs {
		name := jsonName(v, fe)
		ve.Fields[name] = append(ve.Fields[name], fieldMessage(name, fe))
	}
	return ve
}

// Validate checks the input before it is sent.
func (in NoteInput) Validate() error {
	return Validate(in)
}

func fieldMessage(name string, fe validator.FieldError) string {
	field := strings.ReplaceAll(name, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// jsonName returns the JSON name of the field fe refers to.
func jsonName(v any, fe validator.FieldError) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
			return strings.Split(tag, ",")[0]
		}
	}
	return strings.ToLower(fe.Field())
}
