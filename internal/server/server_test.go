package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mbruegger/wallcast/internal/rotation"
	"github.com/mbruegger/wallcast/internal/stats"
	"github.com/mbruegger/wallcast/internal/store"
	"github.com/mbruegger/wallcast/internal/wallpaper"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestIndexRoute(t *testing.T) {
	st := openTestStore(t)
	srv, err := New(st)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Bot Status") {
		t.Error("expected 'Bot Status' in response body")
	}
	if !strings.Contains(body, "pexels") {
		t.Error("expected current source 'pexels' on fresh state")
	}
}

func TestIndexShowsDeliveredStats(t *testing.T) {
	st := openTestStore(t)

	s := stats.New(time.Now().Add(-48 * time.Hour))
	s = stats.RecordBatch(s, wallpaper.SourcePexels, 3, 4, time.Now())
	if err := st.SaveStats(s); err != nil {
		t.Fatal(err)
	}
	rot := rotation.State{Index: 1, LastRotated: time.Now()}
	if err := st.SaveRotation(rot); err != nil {
		t.Fatal(err)
	}

	srv, err := New(st)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "unsplash") {
		t.Error("expected rotated source 'unsplash' in response")
	}
	if !strings.Contains(body, "100.0%") {
		t.Error("expected success rate in response")
	}
}

func TestReportRoute(t *testing.T) {
	st := openTestStore(t)
	srv, err := New(st)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/report", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	// goldmark renders the markdown heading to HTML
	if !strings.Contains(body, "<h1>Delivery Report</h1>") {
		t.Error("expected rendered report heading")
	}
}

func TestUnknownPathIs404(t *testing.T) {
	st := openTestStore(t)
	srv, err := New(st)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestStaticRoute(t *testing.T) {
	st := openTestStore(t)
	srv, err := New(st)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "font-sans") {
		t.Error("expected CSS content")
	}
}

func TestReportText(t *testing.T) {
	s := stats.New(time.Now().Add(-time.Hour))
	s = stats.RecordBatch(s, wallpaper.SourceWallhaven, 2, 5, time.Now())

	report := Report(s, wallpaper.SourceWallhaven, time.Now())
	for _, want := range []string{
		"# Delivery Report",
		"**Current source:** wallhaven",
		"- Sent: 2",
		"- Filtered out: 3",
		"- wallhaven: 2",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
