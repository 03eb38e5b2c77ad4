// Package media downloads wallpaper images, verifies they are usable on
// a phone screen, and fingerprints them for the sent-image record.
package media

import (
	"context"
	"crypto/md5"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	minWidth  = 500
	minHeight = 800

	jpegQuality = 95
)

// Fetcher downloads and validates remote images.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: 60 * time.Second}}
}

// Download fetches url into dest. It rejects non-image responses before
// touching the body.
func (f *Fetcher) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image download HTTP %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("unexpected content type %q", ct)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating scratch file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("writing scratch file: %w", err)
	}
	return nil
}

// Verify checks that path holds a decodable image at phone-usable
// dimensions and normalizes it to JPEG in place when it is some other
// format. Telegram's photo endpoint is happiest with plain JPEG.
func Verify(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}

	img, format, err := image.Decode(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() < minWidth || bounds.Dy() < minHeight {
		return fmt.Errorf("image too small: %dx%d", bounds.Dx(), bounds.Dy())
	}

	if format == "jpeg" {
		return nil
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewriting image: %w", err)
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		out.Close()
		return fmt.Errorf("encoding jpeg: %w", err)
	}
	return out.Close()
}

// Hash returns the hex MD5 digest of the file at path.
func Hash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image for hashing: %w", err)
	}
	defer file.Close()

	h := md5.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hashing image: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
