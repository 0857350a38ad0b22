package notes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/notes/pkg/telemetry"
)

// fakeAPI is an in-memory notes backend.
type fakeAPI struct {
	mu       sync.Mutex
	notes    []Note
	token    string
	requests []*http.Request
	failList int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{
		notes: []Note{
			{ID: 1, Title: "Groceries", Note: "milk", UserID: 1},
			{ID: 2, Title: "Taxes", Note: "file by April", UserID: 1},
		},
		token: "secret",
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			api.mu.Lock()
			api.requests = append(api.requests, req.Clone(context.Background()))
			api.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/notes", func(w http.ResponseWriter, req *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		if api.failList > 0 {
			api.failList--
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server Error"})
			return
		}
		writeJSON(w, http.StatusOK, api.notes)
	})
	r.Get("/api/notes/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		api.mu.Lock()
		defer api.mu.Unlock()
		for _, n := range api.notes {
			if n.ID == id {
				writeJSON(w, http.StatusOK, n)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No query results for model [App\\Models\\Note]."})
	})
	r.Post("/api/notes", func(w http.ResponseWriter, req *http.Request) {
		var in NoteInput
		_ = json.NewDecoder(req.Body).Decode(&in)
		if in.Title == "taken" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"message": "The title has already been taken.",
				"errors":  map[string][]string{"title": {"The title has already been taken."}},
			})
			return
		}
		api.mu.Lock()
		n := Note{ID: int64(len(api.notes) + 1), Title: in.Title, Note: in.Note, UserID: in.UserID}
		api.notes = append(api.notes, n)
		api.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Created successfully", "note": n})
	})
	r.Post("/api/login", func(w http.ResponseWriter, req *http.Request) {
		var creds Credentials
		_ = json.NewDecoder(req.Body).Decode(&creds)
		if creds.Password != "password123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		user := User{ID: 1, Name: "Ada", Email: creds.Email}
		if creds.Email == "bare@example.com" {
			writeJSON(w, http.StatusOK, user)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": api.token})
	})
	r.Post("/api/logout", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server Error"})
	})
	r.Get("/api/user", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer "+api.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}
		writeJSON(w, http.StatusOK, User{ID: 1, Name: "Ada", Email: "ada@example.com"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api, srv
}

func (a *fakeAPI) last() *http.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests[len(a.requests)-1]
}

func (a *fakeAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClientListNotes(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := NewClient(srv.URL+"/api/", WithToken("secret"))

	ns, err := c.ListNotes(context.Background())
	if err != nil {
		t.Fatalf("ListNotes() error = %v", err)
	}
	if len(ns) != 2 || ns[1].Title != "Taxes" || ns[1].UserID != 1 {
		t.Errorf("ListNotes() = %+v", ns)
	}

	req := api.last()
	if got := req.Header.Get("Authorization"); got != "Bearer secret" {
		t.Errorf("Authorization = %q", got)
	}
	if _, err := uuid.Parse(req.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("%s = %q is not a UUID", RequestIDHeader, req.Header.Get(RequestIDHeader))
	}
}

func TestClientGetNote(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := NewClient(srv.URL + "/api")

	n, err := c.GetNote(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetNote() error = %v", err)
	}
	if n.Note != "file by April" {
		t.Errorf("GetNote() = %+v", n)
	}

	_, err = c.GetNote(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetNote(99) error = %v, want ErrNotFound", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("GetNote(99) error = %#v, want *APIError 404", err)
	}
}

func TestClientCreateNote(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := NewClient(srv.URL + "/api")

	n, err := c.CreateNote(context.Background(), NoteInput{Title: "Call mom", Note: "Sunday", UserID: 1})
	if err != nil {
		t.Fatalf("CreateNote() error = %v", err)
	}
	if n.ID != 3 || n.Title != "Call mom" {
		t.Errorf("CreateNote() = %+v", n)
	}
	if got := api.last().Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestClientCreateNoteValidatesLocally(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := NewClient(srv.URL + "/api")

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	_, err := c.CreateNote(context.Background(), NoteInput{Title: string(long)})

	ve, ok := IsValidation(err)
	if !ok {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	for _, field := range []string{"title", "note", "user_id"} {
		if ve.First(field) == "" {
			t.Errorf("no message for %s: %v", field, ve.Fields)
		}
	}
	if api.count() != 0 {
		t.Errorf("requests = %d, want 0", api.count())
	}
}

func TestClientCreateNoteServerValidation(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := NewClient(srv.URL + "/api")

	_, err := c.CreateNote(context.Background(), NoteInput{Title: "taken", Note: "x", UserID: 1})

	ve, ok := IsValidation(err)
	if !ok {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if got := ve.First("title"); got != "The title has already been taken." {
		t.Errorf("title error = %q", got)
	}
}

func TestClientLogin(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := NewClient(srv.URL + "/api")
	ctx := context.Background()

	if _, err := c.CurrentUser(ctx); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("CurrentUser() without token error = %v", err)
	}

	_, err := c.Login(ctx, Credentials{Email: "ada@example.com", Password: "wrong"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Login(wrong) error = %v, want ErrUnauthorized", err)
	}

	user, err := c.Login(ctx, Credentials{Email: "ada@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Name != "Ada" || c.Token() != "secret" {
		t.Errorf("Login() = %+v, token %q", user, c.Token())
	}

	me, err := c.CurrentUser(ctx)
	if err != nil || me.Email != "ada@example.com" {
		t.Errorf("CurrentUser() = %+v, %v", me, err)
	}

	if err := c.Logout(ctx); err == nil {
		t.Error("Logout() error = nil, want the server error")
	}
	if c.Token() != "" {
		t.Errorf("token after Logout = %q, want empty", c.Token())
	}
}

func TestClientLoginBareUser(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := NewClient(srv.URL + "/api")

	user, err := c.Login(context.Background(), Credentials{Email: "bare@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user == nil || user.Email != "bare@example.com" {
		t.Errorf("Login() = %+v", user)
	}
	if c.Token() != "" {
		t.Errorf("token = %q, want none", c.Token())
	}
}

func TestRegisterValidation(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")
	_, err := c.Register(context.Background(), Registration{Name: "Ada", Email: "not-an-email", Password: "short"})

	ve, ok := IsValidation(err)
	if !ok {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if ve.First("email") == "" || ve.First("password") == "" {
		t.Errorf("Fields = %v", ve.Fields)
	}
	if ve.First("name") != "" {
		t.Errorf("unexpected name error: %v", ve.Fields["name"])
	}
}

func TestClientMetrics(t *testing.T) {
	_, srv := newFakeAPI(t)
	reg := prometheus.NewRegistry()
	m := telemetry.New(telemetry.WithRegistry(reg))
	c := NewClient(srv.URL+"/api", WithMetrics(m), WithRateLimit(100, 5))

	_, _ = c.ListNotes(context.Background())
	_, _ = c.GetNote(context.Background(), 42)

	n, err := testutil.GatherAndCount(reg, "notes_api_requests_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("notes_api_requests_total series = %d, want 2", n)
	}
}

func TestClientRespectsContext(t *testing.T) {
	_, srv := newFakeAPI(t)
	c := NewClient(srv.URL + "/api")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.ListNotes(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ListNotes() error = %v, want context.Canceled", err)
	}
}
