// Package rotation tracks which upstream source is current. The sources form
// a fixed cycle; the index always resolves through modulo, so stale persisted
// values stay safe.
package rotation

import (
	"time"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// State is the persisted rotation position.
type State struct {
	Index       int
	LastRotated time.Time
}

// Current returns the source the index resolves to.
func (s State) Current() wallpaper.Source {
	sources := wallpaper.Sources()
	return sources[mod(s.Index, len(sources))]
}

// Next returns the source an Advance would move to. It never mutates state.
func (s State) Next() wallpaper.Source {
	sources := wallpaper.Sources()
	return sources[mod(s.Index+1, len(sources))]
}

// Advance moves to the next source and stamps the rotation time. The caller
// is responsible for persisting the new state.
func (s *State) Advance(now time.Time) wallpaper.Source {
	s.Index = mod(s.Index+1, len(wallpaper.Sources()))
	s.LastRotated = now
	return s.Current()
}

// Policy decides whether the scheduled flow should rotate after a batch.
// Manual rotation bypasses the policy entirely.
type Policy func(sentCount int) bool

// RotateAfterSend is the default policy: rotate after any batch that sent at
// least one item, never otherwise.
func RotateAfterSend(sentCount int) bool {
	return sentCount > 0
}

func mod(i, n int) int {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}
