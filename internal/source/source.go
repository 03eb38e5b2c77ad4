// Package source fetches wallpaper candidate listings from the upstream
// provider APIs (Pexels, Unsplash, Wallhaven).
package source

import (
	"context"
	"log"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// Repository fetches candidate wallpapers for a source and category. An
// empty slice and an error are equally non-fatal to the caller: both mean
// "no candidates this attempt".
type Repository interface {
	Fetch(ctx context.Context, src wallpaper.Source, category wallpaper.Category, count int) ([]wallpaper.Wallpaper, error)
}

// Composite tries configured repositories in priority order and returns the
// first non-empty result. Results from two repositories are never mixed in
// one call, and repositories for unconfigured sources simply yield nothing.
type Composite struct {
	repos []Repository
}

// NewComposite creates a composite over the given repositories.
func NewComposite(repos ...Repository) *Composite {
	return &Composite{repos: repos}
}

// Fetch implements Repository with first-success-wins semantics.
func (c *Composite) Fetch(ctx context.Context, src wallpaper.Source, category wallpaper.Category, count int) ([]wallpaper.Wallpaper, error) {
	for _, repo := range c.repos {
		papers, err := repo.Fetch(ctx, src, category, count)
		if err != nil {
			log.Printf("fetch from %s failed: %v", src, err)
			continue
		}
		if len(papers) > 0 {
			return papers, nil
		}
	}
	return nil, nil
}
