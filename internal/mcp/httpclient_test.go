package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/pushpull/internal/apperr"
	"github.com/claude/pushpull/internal/history"
	"github.com/claude/pushpull/internal/models"
	"github.com/claude/pushpull/internal/routine"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestHTTPClientList verifies the workout list is fetched and decoded.
func TestHTTPClientList(t *testing.T) {
	day := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.Workout{{ID: "a", Type: models.Push, Date: day, Completed: true}})
		},
	})
	defer ts.Close()

	workouts, err := NewHTTPClient(ts.URL + "/").List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 1 || workouts[0].ID != "a" || !workouts[0].Date.Equal(day) {
		t.Errorf("workouts = %+v", workouts)
	}
}

// TestHTTPClientDetail verifies a workout detail round trip, including the
// embedded summary fields.
func TestHTTPClientDetail(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts/w1": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, history.Detail{
				Workout: models.Workout{ID: "w1", Type: models.Pull},
				Summary: history.Summary{TotalSets: 3, TotalVolume: 2400},
			})
		},
	})
	defer ts.Close()

	d, err := NewHTTPClient(ts.URL).Detail(context.Background(), "w1")
	if err != nil {
		t.Fatal(err)
	}
	if d.Workout.ID != "w1" || d.TotalSets != 3 || d.TotalVolume != 2400 {
		t.Errorf("detail = %+v", d)
	}
}

// TestHTTPClientNotFound verifies a 404 maps to apperr.ErrNotFound so tools
// can report a missing workout cleanly.
func TestHTTPClientNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).Detail(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestHTTPClientServerError verifies non-200/404 responses surface the body.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts/last": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"storage error"}`, http.StatusServiceUnavailable)
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).LastDates(context.Background())
	if err == nil || errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want a plain error", err)
	}
}

// TestHTTPClientRoutine verifies the routine path uses the workout type.
func TestHTTPClientRoutine(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/routines/pull": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, routine.Routine{Type: models.Pull, IsCustomized: true, TotalSets: 12})
		},
	})
	defer ts.Close()

	rt, err := NewHTTPClient(ts.URL).Exercises(context.Background(), models.Pull)
	if err != nil {
		t.Fatal(err)
	}
	if !rt.IsCustomized || rt.TotalSets != 12 {
		t.Errorf("routine = %+v", rt)
	}
}
