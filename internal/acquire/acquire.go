// Package acquire runs the bounded fetch-filter-dedup loop that gathers a
// batch of approved wallpapers from a single source.
package acquire

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/mbruegger/wallcast/internal/source"
	"github.com/mbruegger/wallcast/internal/wallpaper"
)

const (
	maxAttemptsCap  = 50
	perRequestCap   = 30
	defaultPacing   = 300 * time.Millisecond
	attemptsPerItem = 3
	requestPerItem  = 5
)

// SentChecker answers whether a URL has already been dispatched.
type SentChecker interface {
	IsSent(url string) bool
}

// Approved pairs an accepted wallpaper with the category it was found
// under, which the dispatcher later needs for captions.
type Approved struct {
	Category  wallpaper.Category
	Wallpaper wallpaper.Wallpaper
}

// Acquirer gathers batches of filtered, unseen wallpapers.
type Acquirer struct {
	repo   source.Repository
	seen   SentChecker
	Pacing time.Duration
	rand   *rand.Rand
}

func New(repo source.Repository, seen SentChecker) *Acquirer {
	return &Acquirer{
		repo:   repo,
		seen:   seen,
		Pacing: defaultPacing,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Acquire attempts to gather up to target approved wallpapers from src.
// Each attempt requests one random safe category, drops duplicates and
// content that fails filtering, and stops as soon as the target is met.
// Attempt and per-request sizes are bounded so a starved source cannot
// spin forever. A short batch is not an error.
func (a *Acquirer) Acquire(ctx context.Context, src wallpaper.Source, target int) []Approved {
	if target <= 0 {
		return nil
	}

	maxAttempts := target * attemptsPerItem
	if maxAttempts > maxAttemptsCap {
		maxAttempts = maxAttemptsCap
	}
	perRequest := target * requestPerItem
	if perRequest > perRequestCap {
		perRequest = perRequestCap
	}

	categories := wallpaper.SafeCategories()
	approved := make([]Approved, 0, target)
	picked := make(map[string]bool)

	for attempt := 1; attempt <= maxAttempts && len(approved) < target; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				log.Printf("acquisition for %s cancelled after %d approved", src, len(approved))
				return approved
			case <-time.After(a.Pacing):
			}
		}

		category := categories[a.rand.Intn(len(categories))]
		papers, err := a.repo.Fetch(ctx, src, category, perRequest)
		if err != nil {
			log.Printf("attempt %d: fetching %q from %s: %v", attempt, category, src, err)
			continue
		}

		for _, paper := range papers {
			if len(approved) >= target {
				break
			}
			if picked[paper.URL] || a.seen.IsSent(paper.URL) {
				continue
			}
			if !paper.Valid() {
				continue
			}
			picked[paper.URL] = true
			approved = append(approved, Approved{Category: category, Wallpaper: paper})
		}
	}

	if len(approved) < target {
		log.Printf("acquisition from %s fell short: %d of %d approved", src, len(approved), target)
	}
	return approved
}
