// Package pipeline orchestrates one delivery cycle: acquire a batch from
// the current source, dispatch it to the channel, fold the outcome into
// stats, and rotate the source.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mbruegger/wallcast/internal/acquire"
	"github.com/mbruegger/wallcast/internal/config"
	"github.com/mbruegger/wallcast/internal/dedup"
	"github.com/mbruegger/wallcast/internal/dispatch"
	"github.com/mbruegger/wallcast/internal/media"
	"github.com/mbruegger/wallcast/internal/rotation"
	"github.com/mbruegger/wallcast/internal/source"
	"github.com/mbruegger/wallcast/internal/stats"
	"github.com/mbruegger/wallcast/internal/store"
	"github.com/mbruegger/wallcast/internal/telegram"
	"github.com/mbruegger/wallcast/internal/wallpaper"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full cycle.
type Result struct {
	Source wallpaper.Source
	Sent   int
	Steps  []StepResult
}

// Failed reports whether any step errored.
func (r *Result) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

type acquirer interface {
	Acquire(ctx context.Context, src wallpaper.Source, target int) []acquire.Approved
}

type batchDispatcher interface {
	Dispatch(ctx context.Context, batch []acquire.Approved) int
}

type stateStore interface {
	LoadStats() (stats.Stats, error)
	SaveStats(stats.Stats) error
	LoadRotation() (rotation.State, error)
	SaveRotation(rotation.State) error
}

type notifier interface {
	BatchComplete(ctx context.Context, src wallpaper.Source, sent, target int)
	Error(ctx context.Context, msg string)
	Rotated(ctx context.Context, from, to wallpaper.Source)
}

// Pipeline orchestrates the 4-step delivery cycle.
type Pipeline struct {
	target   int
	acquirer acquirer
	sender   batchDispatcher
	state    stateStore
	notify   notifier
	rotate   rotation.Policy
}

// New wires a pipeline from config and an open store. The Telegram bot
// token is resolved here so a missing token fails before the first cycle.
func New(cfg *config.Config, st *store.Store, repo source.Repository) (*Pipeline, error) {
	token, err := cfg.BotToken()
	if err != nil {
		return nil, err
	}
	client := telegram.NewClient(token)

	cache := dedup.New(st)
	acq := acquire.New(repo, cache)

	d := dispatch.New(media.NewFetcher(), client, cache, media.Verify, media.Hash)
	d.ChannelID = cfg.Telegram.ChannelID
	d.TmpDir = cfg.GetTmpDir()
	d.Pacing = time.Duration(cfg.Batch.SendDelaySeconds) * time.Second

	return &Pipeline{
		target:   cfg.Batch.PerBatch,
		acquirer: acq,
		sender:   d,
		state:    st,
		notify:   telegram.NewNotifier(client, cfg.Telegram.AdminChatID),
		rotate:   rotation.RotateAfterSend,
	}, nil
}

// RunCycle executes one full cycle against the current source. It never
// returns an error: failures are captured in the step results, reported
// to the admin chat, and counted as a failed batch.
func (p *Pipeline) RunCycle(ctx context.Context) (r *Result) {
	r = &Result{}

	rot, err := p.state.LoadRotation()
	if err != nil {
		log.Printf("loading rotation state: %v", err)
	}
	src := rot.Current()
	r.Source = src

	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("cycle against %s panicked: %v", src, rec)
			log.Print(msg)
			r.Steps = append(r.Steps, StepResult{Name: "Cycle", Err: fmt.Errorf("%v", rec)})
			p.notify.Error(ctx, msg)
			p.recordBatch(src, 0, 0)
		}
	}()

	// Step 1: Acquire
	log.Printf("Step 1/4: Acquiring up to %d wallpapers from %s...", p.target, src)
	batch := p.acquirer.Acquire(ctx, src, p.target)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Acquire",
		Summary: fmt.Sprintf("Approved %d of %d wanted from %s", len(batch), p.target, src),
	})

	// Step 2: Dispatch
	log.Printf("Step 2/4: Dispatching %d wallpapers...", len(batch))
	sent := 0
	if len(batch) > 0 {
		sent = p.sender.Dispatch(ctx, batch)
	}
	r.Sent = sent
	step := StepResult{
		Name:    "Dispatch",
		Summary: fmt.Sprintf("Sent %d of %d", sent, len(batch)),
	}
	switch {
	case len(batch) == 0:
		step.Err = fmt.Errorf("no candidates approved from %s", src)
	case sent == 0:
		step.Err = fmt.Errorf("all %d sends failed", len(batch))
	}
	r.Steps = append(r.Steps, step)

	// Step 3: Stats
	log.Println("Step 3/4: Recording stats...")
	r.Steps = append(r.Steps, p.recordBatch(src, sent, len(batch)))

	// Step 4: Rotate
	log.Println("Step 4/4: Rotating source...")
	r.Steps = append(r.Steps, p.maybeRotate(ctx, rot, sent))

	if step.Err != nil {
		p.notify.Error(ctx, step.Err.Error())
	} else {
		p.notify.BatchComplete(ctx, src, sent, p.target)
	}
	return r
}

// recordBatch folds one batch outcome into persisted stats.
func (p *Pipeline) recordBatch(src wallpaper.Source, sent, total int) StepResult {
	s, err := p.state.LoadStats()
	if err != nil {
		return StepResult{Name: "Stats", Err: fmt.Errorf("loading stats: %w", err)}
	}
	s = stats.RecordBatch(s, src, sent, total, time.Now())
	if err := p.state.SaveStats(s); err != nil {
		return StepResult{Name: "Stats", Err: fmt.Errorf("saving stats: %w", err)}
	}
	return StepResult{
		Name:    "Stats",
		Summary: fmt.Sprintf("Total sent %d, success rate %.0f%%", s.TotalSent, s.SuccessRate()),
	}
}

func (p *Pipeline) maybeRotate(ctx context.Context, rot rotation.State, sent int) StepResult {
	if !p.rotate(sent) {
		return StepResult{
			Name:    "Rotate",
			Summary: fmt.Sprintf("Staying on %s (nothing sent)", rot.Current()),
		}
	}
	from := rot.Current()
	to := rot.Advance(time.Now())
	if err := p.state.SaveRotation(rot); err != nil {
		return StepResult{Name: "Rotate", Err: fmt.Errorf("saving rotation: %w", err)}
	}
	p.notify.Rotated(ctx, from, to)
	return StepResult{
		Name:    "Rotate",
		Summary: fmt.Sprintf("Rotated %s to %s", from, to),
	}
}

// Watch runs cycles forever, interval apart, until the context is
// cancelled. A running cycle always completes; cancellation is honored
// at cycle boundaries and mid-sleep.
func (p *Pipeline) Watch(ctx context.Context, interval time.Duration) {
	for {
		r := p.RunCycle(ctx)
		for _, step := range r.Steps {
			if step.Err != nil {
				log.Printf("%s: %v", step.Name, step.Err)
			} else {
				log.Printf("%s: %s", step.Name, step.Summary)
			}
		}

		log.Printf("Next cycle in %s", interval)
		select {
		case <-ctx.Done():
			log.Println("Watch stopped")
			return
		case <-time.After(interval):
		}
	}
}
