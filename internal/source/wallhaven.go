package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

const defaultWallhavenBaseURL = "https://wallhaven.cc/api/v1"

// mobileRatios and mobileResolutions narrow Wallhaven searches to
// portrait phone screens.
var (
	mobileRatios = []string{"9x16", "10x16", "9x18", "9x19.5", "9x20"}

	mobileResolutions = []string{
		"1080x1920", "1080x2160", "1080x2340", "1080x2400",
		"1440x2560", "1440x2960", "1440x3040", "1440x3200",
	}
)

// Wallhaven fetches wallpapers from the Wallhaven search API. The API
// key is optional; without one only SFW general results are available,
// which is all the search asks for anyway.
type Wallhaven struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewWallhaven(apiKey string) *Wallhaven {
	return &Wallhaven{
		apiKey:  apiKey,
		baseURL: defaultWallhavenBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch implements Repository for the Wallhaven source.
func (w *Wallhaven) Fetch(ctx context.Context, src wallpaper.Source, category wallpaper.Category, count int) ([]wallpaper.Wallpaper, error) {
	if src != wallpaper.SourceWallhaven {
		return nil, nil
	}

	params := url.Values{
		"q":           {string(category)},
		"categories":  {"101"}, // general + people, anime off
		"purity":      {"100"}, // SFW only
		"ratios":      {strings.Join(mobileRatios, ",")},
		"resolutions": {strings.Join(mobileResolutions, ",")},
		"sorting":     {"favorites"},
		"order":       {"desc"},
		"page":        {"1"},
	}
	if w.apiKey != "" {
		params.Set("apikey", w.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building wallhaven request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wallhaven search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wallhaven HTTP %d", resp.StatusCode)
	}

	var result struct {
		Data []struct {
			Path       string `json:"path"`
			DimensionX int    `json:"dimension_x"`
			DimensionY int    `json:"dimension_y"`
			Tags       []struct {
				Name string `json:"name"`
			} `json:"tags"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding wallhaven response: %w", err)
	}

	var papers []wallpaper.Wallpaper
	for _, item := range result.Data {
		if len(papers) >= count {
			break
		}
		var tags []string
		for _, t := range item.Tags {
			if t.Name != "" {
				tags = append(tags, t.Name)
			}
		}
		paper := wallpaper.Wallpaper{
			URL:         item.Path,
			Width:       item.DimensionX,
			Height:      item.DimensionY,
			Source:      wallpaper.SourceWallhaven,
			Description: string(category) + " wallpaper",
			Author:      "Wallhaven Community",
			Tags:        tags,
		}
		if paper.MobileFriendly() {
			papers = append(papers, paper)
		}
	}
	return papers, nil
}
