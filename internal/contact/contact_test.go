package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tomz197/portfolio/internal/db"
)

func validSubmission() Submission {
	return Submission{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Subject:   "Engines",
		Message:   "Let's build something.",
	}
}

func newTestStore(t *testing.T) (*Store, *db.DB) {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewStore(database), database
}

func newRouter(store *Store) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, store, zap.NewNop())
	return r
}

func TestSubmissionValidate(t *testing.T) {
	require.NoError(t, validSubmission().Validate())

	for _, f := range Fields {
		sub := validSubmission()
		require.NoError(t, sub.set(f, ""))
		err := sub.Validate()
		assert.ErrorIs(t, err, ErrMissingField)
		assert.Contains(t, err.Error(), string(f))

		require.NoError(t, sub.set(f, "  "))
		assert.NoError(t, sub.Validate(), "whitespace satisfies required")
	}

	var sub Submission
	assert.ErrorIs(t, sub.set("phone", "1"), ErrUnknownField)
}

func TestSubmissionJSONKeys(t *testing.T) {
	data, err := json.Marshal(validSubmission())
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Len(t, m, len(Fields))
	for _, f := range Fields {
		assert.Contains(t, m, string(f))
	}
}

func TestStoreSaveAndList(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var tick int
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := store.Save(ctx, validSubmission(), "10.0.0.1:1234")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second := validSubmission()
	second.Subject = "Follow-up"
	_, err = store.Save(ctx, second, "")
	require.NoError(t, err)

	records, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Follow-up", records[0].Submission.Subject)
	assert.Equal(t, first.ID, records[1].ID)
	assert.Equal(t, validSubmission(), records[1].Submission)
	assert.Equal(t, "10.0.0.1:1234", records[1].RemoteAddr)
	assert.True(t, records[1].CreatedAt.Equal(base.Add(time.Minute)))

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestPostContact(t *testing.T) {
	store, _ := newTestStore(t)
	r := newRouter(store)

	body, _ := json.Marshal(validSubmission())
	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)

	records, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, resp.ID, records[0].ID)
}

func TestPostContactRejects(t *testing.T) {
	store, _ := newTestStore(t)
	r := newRouter(store)

	missing := validSubmission()
	missing.Email = ""
	missingBody, _ := json.Marshal(missing)

	tests := map[string]string{
		"malformed":     `{"firstName":`,
		"missing field": string(missingBody),
		"empty object":  `{}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var m map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
			assert.NotEmpty(t, m["error"])
		})
	}

	records, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPostContactStoreFailure(t *testing.T) {
	store, database := newTestStore(t)
	r := newRouter(store)
	require.NoError(t, database.Close())

	body, _ := json.Marshal(validSubmission())
	req := httptest.NewRequest(http.MethodPost, Path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListNotExposed(t *testing.T) {
	store, _ := newTestStore(t)
	r := newRouter(store)

	sub := validSubmission()
	sub.Email = "ada@private.example"
	_, err := store.Save(context.Background(), sub, "1.2.3.4:5")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, Path, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.NotContains(t, w.Body.String(), "ada@private.example")
}

func TestClientSubmit(t *testing.T) {
	var calls atomic.Int32
	var got Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, Path, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc","message":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", nil)
	resp, err := c.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.ID)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, validSubmission(), got)
}

func TestClientSubmitFailures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"bad request": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		},
	}
	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				h(w, r)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).Submit(context.Background(), validSubmission())
			assert.ErrorIs(t, err, ErrSubmitFailed)
			assert.Equal(t, int32(1), calls.Load(), "no retry")
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewClient(url, nil).Submit(context.Background(), validSubmission())
		assert.ErrorIs(t, err, ErrSubmitFailed)
	})
}

// fakeSubmitter records calls and returns a fixed error.
type fakeSubmitter struct {
	mu    sync.Mutex
	calls []Submission
	err   error
	block chan struct{}
}

func (s *fakeSubmitter) Submit(ctx context.Context, sub Submission) (Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, sub)
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	return Response{ID: "1"}, s.err
}

func (s *fakeSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func fillForm(t *testing.T, f *Form) {
	t.Helper()
	sub := validSubmission()
	for _, field := range Fields {
		require.NoError(t, f.Set(field, sub.Get(field)))
	}
}

func TestFormSubmitSuccess(t *testing.T) {
	f := NewForm()
	fillForm(t, f)
	s := &fakeSubmitter{}

	n, err := f.Submit(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, NotifySent, n)
	assert.Equal(t, NotifySent, f.LastNotification())
	require.Equal(t, 1, s.count())
	assert.Equal(t, validSubmission(), s.calls[0])
	assert.Equal(t, Submission{}, f.Values(), "fields reset to empty strings")
	assert.False(t, f.Pending())
}

func TestFormSubmitFailure(t *testing.T) {
	f := NewForm()
	fillForm(t, f)
	s := &fakeSubmitter{err: errors.New("boom")}

	n, err := f.Submit(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, NotifyFailed, n)
	assert.Equal(t, VariantDestructive, n.Variant)
	assert.Equal(t, 1, s.count())
	assert.Equal(t, validSubmission(), f.Values(), "fields keep their values")
}

func TestFormSubmitRequiresAllFields(t *testing.T) {
	f := NewForm()
	require.NoError(t, f.Set(FieldFirstName, "Ada"))
	s := &fakeSubmitter{}

	_, err := f.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, 0, s.count())
	assert.ErrorIs(t, f.Set("nickname", "x"), ErrUnknownField)
}

func TestFormSubmitWhilePending(t *testing.T) {
	f := NewForm()
	fillForm(t, f)
	s := &fakeSubmitter{block: make(chan struct{})}

	done := make(chan Notification)
	go func() {
		n, _ := f.Submit(context.Background(), s)
		done <- n
	}()

	require.Eventually(t, f.Pending, time.Second, time.Millisecond)
	_, err := f.Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrPending)

	close(s.block)
	assert.Equal(t, NotifySent, <-done)
	assert.Equal(t, 1, s.count())
}

func TestFormEndToEnd(t *testing.T) {
	store, _ := newTestStore(t)
	srv := httptest.NewServer(newRouter(store))
	defer srv.Close()

	f := NewForm()
	fillForm(t, f)

	n, err := f.Submit(context.Background(), NewClient(srv.URL, nil))
	require.NoError(t, err)
	assert.Equal(t, NotifySent, n)
	assert.Equal(t, Submission{}, f.Values())

	records, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, validSubmission(), records[0].Submission)
}
