package dedup

import (
	"errors"
	"testing"
	"time"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// fakeStore records save calls and serves a fixed record set.
type fakeStore struct {
	records   []wallpaper.SentRecord
	loadCalls int
	saved     [][]wallpaper.SentRecord
	loadErr   error
	saveErr   error
}

func (f *fakeStore) LoadRecords() ([]wallpaper.SentRecord, error) {
	f.loadCalls++
	return f.records, f.loadErr
}

func (f *fakeStore) SaveRecords(recs []wallpaper.SentRecord) error {
	cp := make([]wallpaper.SentRecord, len(recs))
	copy(cp, recs)
	f.saved = append(f.saved, cp)
	return f.saveErr
}

func rec(url string) wallpaper.SentRecord {
	return wallpaper.SentRecord{
		URL:    url,
		Source: wallpaper.SourcePexels,
		SentAt: time.Now(),
	}
}

func TestIsSentUsesPersistedRecords(t *testing.T) {
	fs := &fakeStore{records: []wallpaper.SentRecord{rec("https://a.com/1.jpg")}}
	c := New(fs)

	if !c.IsSent("https://a.com/1.jpg") {
		t.Error("expected persisted URL to be reported as sent")
	}
	if c.IsSent("https://a.com/2.jpg") {
		t.Error("unknown URL reported as sent")
	}
}

func TestLoadHappensExactlyOnce(t *testing.T) {
	fs := &fakeStore{}
	c := New(fs)

	c.IsSent("https://a.com/1.jpg")
	c.IsSent("https://a.com/2.jpg")
	c.MarkSent(rec("https://a.com/3.jpg"))

	if fs.loadCalls != 1 {
		t.Errorf("store loaded %d times, want 1", fs.loadCalls)
	}
}

func TestMarkSentPersistsFullSet(t *testing.T) {
	fs := &fakeStore{records: []wallpaper.SentRecord{rec("https://a.com/old.jpg")}}
	c := New(fs)

	if err := c.MarkSent(rec("https://a.com/new.jpg")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fs.saved) != 1 {
		t.Fatalf("expected 1 save, got %d", len(fs.saved))
	}
	if len(fs.saved[0]) != 2 {
		t.Errorf("expected full set of 2 records saved, got %d", len(fs.saved[0]))
	}
}

func TestMarkSentIsIdempotent(t *testing.T) {
	fs := &fakeStore{}
	c := New(fs)

	url := "https://a.com/dup.jpg"
	c.MarkSent(rec(url))
	c.MarkSent(rec(url))

	if !c.IsSent(url) {
		t.Error("expected URL to be sent after marking")
	}
	last := fs.saved[len(fs.saved)-1]
	count := 0
	for _, r := range last {
		if r.URL == url {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one record for %s, got %d", url, count)
	}
	if c.Size() != 1 {
		t.Errorf("cache size = %d, want 1", c.Size())
	}
}

func TestLoadFailureDegradesToEmptyCache(t *testing.T) {
	fs := &fakeStore{loadErr: errors.New("disk gone")}
	c := New(fs)

	if c.IsSent("https://a.com/1.jpg") {
		t.Error("failed load should behave as empty cache")
	}
	if err := c.MarkSent(rec("https://a.com/1.jpg")); err != nil {
		t.Errorf("mark after failed load should still work: %v", err)
	}
}

func TestMarkSentSurfacesSaveError(t *testing.T) {
	fs := &fakeStore{saveErr: errors.New("disk full")}
	c := New(fs)

	if err := c.MarkSent(rec("https://a.com/1.jpg")); err == nil {
		t.Error("expected save error to be returned")
	}
	// The in-memory index still holds the record for this process.
	if !c.IsSent("https://a.com/1.jpg") {
		t.Error("in-memory index should retain the mark")
	}
}
