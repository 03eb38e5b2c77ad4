package rotation

import (
	"testing"
	"time"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

func TestAdvanceCyclesBackToStart(t *testing.T) {
	s := State{}
	start := s.Current()

	n := len(wallpaper.Sources())
	for i := 0; i < n; i++ {
		s.Advance(time.Now())
	}

	if s.Current() != start {
		t.Errorf("after %d advances expected %s, got %s", n, start, s.Current())
	}
}

func TestNextDoesNotMutate(t *testing.T) {
	s := State{Index: 1}
	before := s.Current()

	next := s.Next()
	if next == before {
		t.Error("Next should differ from Current with 3 sources")
	}
	if s.Current() != before {
		t.Error("Next must not mutate state")
	}
	if s.Index != 1 {
		t.Errorf("index changed to %d", s.Index)
	}
}

func TestAdvanceWrapsAtEnd(t *testing.T) {
	s := State{Index: 2}
	got := s.Advance(time.Now())

	if s.Index != 0 {
		t.Errorf("Index = %d, want 0", s.Index)
	}
	if got != wallpaper.Sources()[0] {
		t.Errorf("Current = %s, want %s", got, wallpaper.Sources()[0])
	}
}

func TestAdvanceStampsTime(t *testing.T) {
	s := State{}
	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	s.Advance(now)
	if !s.LastRotated.Equal(now) {
		t.Errorf("LastRotated = %v, want %v", s.LastRotated, now)
	}
}

func TestModuloHandlesOutOfRangeIndex(t *testing.T) {
	s := State{Index: 7} // persisted by an older build with more sources
	if s.Current() != wallpaper.Sources()[1] {
		t.Errorf("Current = %s, want %s", s.Current(), wallpaper.Sources()[1])
	}
}

func TestRotateAfterSendPolicy(t *testing.T) {
	if !RotateAfterSend(1) {
		t.Error("expected rotation after a batch with sends")
	}
	if RotateAfterSend(0) {
		t.Error("expected no rotation after an empty batch")
	}
}
