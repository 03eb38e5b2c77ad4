// Package dispatch delivers an approved wallpaper batch to the channel,
// with per-item pacing and failure isolation.
package dispatch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mbruegger/wallcast/internal/acquire"
	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// MediaFetcher downloads and prepares one image.
type MediaFetcher interface {
	Download(ctx context.Context, url, dest string) error
}

// PhotoSender posts one photo to a chat.
type PhotoSender interface {
	SendPhoto(ctx context.Context, chatID, path, caption string) error
}

// Marker records a wallpaper as sent so it is never re-dispatched.
type Marker interface {
	MarkSent(rec wallpaper.SentRecord) error
}

// Verifier and Hasher are satisfied by the media package; they are
// interfaces here so tests can run without real image files.
type (
	Verifier func(path string) error
	Hasher   func(path string) (string, error)
)

// Dispatcher sends approved wallpapers to a Telegram channel one at a
// time, a pacing delay apart.
type Dispatcher struct {
	fetcher MediaFetcher
	sender  PhotoSender
	marker  Marker
	verify  Verifier
	hash    Hasher

	ChannelID string
	TmpDir    string
	Pacing    time.Duration
}

func New(fetcher MediaFetcher, sender PhotoSender, marker Marker, verify Verifier, hash Hasher) *Dispatcher {
	return &Dispatcher{
		fetcher: fetcher,
		sender:  sender,
		marker:  marker,
		verify:  verify,
		hash:    hash,
		TmpDir:  os.TempDir(),
		Pacing:  2 * time.Second,
	}
}

// Dispatch sends the batch in order and returns how many items went
// out. One bad item never takes down the rest: its error is logged and
// the loop moves on. Cancellation is honored between items, never in
// the middle of one.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []acquire.Approved) int {
	sent := 0
	for i, item := range batch {
		if i > 0 {
			select {
			case <-ctx.Done():
				log.Printf("dispatch cancelled after %d of %d items", sent, len(batch))
				return sent
			case <-time.After(d.Pacing):
			}
		}
		if err := d.sendOne(ctx, item); err != nil {
			log.Printf("dispatching %s: %v", item.Wallpaper.URL, err)
			continue
		}
		sent++
	}
	return sent
}

func (d *Dispatcher) sendOne(ctx context.Context, item acquire.Approved) error {
	scratch := filepath.Join(d.TmpDir, "wallcast-"+uuid.NewString()+".jpg")
	defer func() {
		if err := os.Remove(scratch); err != nil && !os.IsNotExist(err) {
			log.Printf("removing scratch file %s: %v", scratch, err)
		}
	}()

	if err := d.fetcher.Download(ctx, item.Wallpaper.URL, scratch); err != nil {
		return err
	}
	if err := d.verify(scratch); err != nil {
		return err
	}

	caption := Caption(item.Category, item.Wallpaper.Source, d.ChannelID)
	if err := d.sender.SendPhoto(ctx, d.ChannelID, scratch, caption); err != nil {
		return err
	}

	hash, err := d.hash(scratch)
	if err != nil {
		log.Printf("hashing %s: %v", item.Wallpaper.URL, err)
	}
	rec := wallpaper.SentRecord{
		URL:       item.Wallpaper.URL,
		Hash:      hash,
		Source:    item.Wallpaper.Source,
		SentAt:    time.Now(),
		Query:     string(item.Category),
		ChannelID: d.ChannelID,
	}
	if err := d.marker.MarkSent(rec); err != nil {
		log.Printf("recording sent image %s: %v", item.Wallpaper.URL, err)
	}
	return nil
}
