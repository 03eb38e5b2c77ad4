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

const defaultUnsplashBaseURL = "https://api.unsplash.com"

// Unsplash fetches wallpapers from the Unsplash search API.
type Unsplash struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

func NewUnsplash(accessKey string) *Unsplash {
	return &Unsplash{
		accessKey: accessKey,
		baseURL:   defaultUnsplashBaseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch implements Repository for the Unsplash source. When the full
// query returns nothing it retries once with the bare category, which
// covers niche categories the richer query starves out.
func (u *Unsplash) Fetch(ctx context.Context, src wallpaper.Source, category wallpaper.Category, count int) ([]wallpaper.Wallpaper, error) {
	if src != wallpaper.SourceUnsplash {
		return nil, nil
	}
	if u.accessKey == "" {
		return nil, nil
	}

	papers, err := u.search(ctx, string(category)+" mobile wallpaper", count)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return u.search(ctx, string(category), count)
	}
	return papers, nil
}

func (u *Unsplash) search(ctx context.Context, query string, count int) ([]wallpaper.Wallpaper, error) {
	perPage := count
	if perPage > 30 {
		perPage = 30
	}
	params := url.Values{
		"query":       {query},
		"per_page":    {fmt.Sprintf("%d", perPage)},
		"orientation": {"portrait"},
		"order_by":    {"relevant"},
		"client_id":   {u.accessKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building unsplash request: %w", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unsplash search: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("unsplash rejected access key (HTTP %d)", resp.StatusCode)
	default:
		return nil, fmt.Errorf("unsplash HTTP %d", resp.StatusCode)
	}

	var result struct {
		Results []struct {
			Width       int    `json:"width"`
			Height      int    `json:"height"`
			Description string `json:"description"`
			AltDesc     string `json:"alt_description"`
			URLs        struct {
				Full string `json:"full"`
			} `json:"urls"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
			Tags []struct {
				Title string `json:"title"`
			} `json:"tags"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding unsplash response: %w", err)
	}

	var papers []wallpaper.Wallpaper
	for _, photo := range result.Results {
		if photo.Width <= 0 || photo.Height <= 0 {
			continue
		}
		// Unsplash returns plenty of landscape shots even with the
		// portrait filter, so enforce a stricter ratio up front.
		if float64(photo.Height)/float64(photo.Width) < 1.3 {
			continue
		}
		desc := photo.Description
		if desc == "" {
			desc = photo.AltDesc
		}
		author := photo.User.Name
		if author == "" {
			author = "Unknown"
		}
		var tags []string
		for _, t := range photo.Tags {
			if t.Title != "" {
				tags = append(tags, t.Title)
			}
		}
		w := wallpaper.Wallpaper{
			URL:         photo.URLs.Full,
			Width:       photo.Width,
			Height:      photo.Height,
			Source:      wallpaper.SourceUnsplash,
			Description: desc,
			Author:      author,
			Tags:        tags,
		}
		if w.MobileFriendly() {
			papers = append(papers, w)
		}
	}
	return papers, nil
}
