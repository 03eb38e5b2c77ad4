package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

const defaultPexelsBaseURL = "https://api.pexels.com/v1"

// Pexels fetches wallpapers from the Pexels search API.
type Pexels struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewPexels creates a Pexels repository. An empty API key yields a
// repository that never returns candidates.
func NewPexels(apiKey string) *Pexels {
	return &Pexels{
		apiKey:  apiKey,
		baseURL: defaultPexelsBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch implements Repository for the Pexels source.
func (p *Pexels) Fetch(ctx context.Context, src wallpaper.Source, category wallpaper.Category, count int) ([]wallpaper.Wallpaper, error) {
	if src != wallpaper.SourcePexels {
		return nil, nil
	}
	if p.apiKey == "" {
		return nil, nil
	}

	params := url.Values{
		"query":       {string(category) + " mobile wallpaper portrait"},
		"per_page":    {fmt.Sprintf("%d", count)},
		"orientation": {"portrait"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building pexels request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels HTTP %d", resp.StatusCode)
	}

	var result struct {
		Photos []struct {
			Width        int    `json:"width"`
			Height       int    `json:"height"`
			Alt          string `json:"alt"`
			Photographer string `json:"photographer"`
			Src          struct {
				Original string `json:"original"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding pexels response: %w", err)
	}

	var papers []wallpaper.Wallpaper
	for _, photo := range result.Photos {
		author := photo.Photographer
		if author == "" {
			author = "Unknown"
		}
		w := wallpaper.Wallpaper{
			URL:         photo.Src.Original,
			Width:       photo.Width,
			Height:      photo.Height,
			Source:      wallpaper.SourcePexels,
			Description: photo.Alt,
			Author:      author,
		}
		if w.MobileFriendly() {
			papers = append(papers, w)
		}
	}
	return papers, nil
}
