package pipeline

import (
	"context"
	"testing"

	"github.com/mbruegger/wallcast/internal/acquire"
	"github.com/mbruegger/wallcast/internal/rotation"
	"github.com/mbruegger/wallcast/internal/stats"
	"github.com/mbruegger/wallcast/internal/wallpaper"
)

type fakeAcquirer struct {
	batch []acquire.Approved
}

func (f *fakeAcquirer) Acquire(ctx context.Context, src wallpaper.Source, target int) []acquire.Approved {
	return f.batch
}

type fakeDispatcher struct {
	sent  int
	panic bool
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, batch []acquire.Approved) int {
	if f.panic {
		panic("dispatcher blew up")
	}
	return f.sent
}

type fakeState struct {
	stats    stats.Stats
	rotation rotation.State
}

func (f *fakeState) LoadStats() (stats.Stats, error)       { return f.stats, nil }
func (f *fakeState) SaveStats(s stats.Stats) error         { f.stats = s; return nil }
func (f *fakeState) LoadRotation() (rotation.State, error) { return f.rotation, nil }
func (f *fakeState) SaveRotation(s rotation.State) error   { f.rotation = s; return nil }

type fakeNotifier struct {
	completes int
	errors    []string
	rotations int
}

func (f *fakeNotifier) BatchComplete(ctx context.Context, src wallpaper.Source, sent, target int) {
	f.completes++
}
func (f *fakeNotifier) Error(ctx context.Context, msg string) { f.errors = append(f.errors, msg) }
func (f *fakeNotifier) Rotated(ctx context.Context, from, to wallpaper.Source) { f.rotations++ }

func approved(n int) []acquire.Approved {
	batch := make([]acquire.Approved, n)
	for i := range batch {
		batch[i] = acquire.Approved{Category: wallpaper.CategoryNature}
	}
	return batch
}

func newTestPipeline(acq acquirer, d batchDispatcher, state *fakeState, n *fakeNotifier) *Pipeline {
	return &Pipeline{
		target:   3,
		acquirer: acq,
		sender:   d,
		state:    state,
		notify:   n,
		rotate:   rotation.RotateAfterSend,
	}
}

func TestRunCycleSuccess(t *testing.T) {
	state := &fakeState{}
	notify := &fakeNotifier{}
	p := newTestPipeline(&fakeAcquirer{batch: approved(3)}, &fakeDispatcher{sent: 3}, state, notify)

	r := p.RunCycle(context.Background())
	if r.Failed() {
		t.Fatalf("cycle failed: %+v", r.Steps)
	}
	if r.Source != wallpaper.SourcePexels {
		t.Fatalf("source = %q, want pexels at index 0", r.Source)
	}
	if r.Sent != 3 {
		t.Fatalf("sent = %d", r.Sent)
	}
	if state.stats.TotalSent != 3 || state.stats.SuccessfulBatches != 1 {
		t.Fatalf("stats = %+v", state.stats)
	}
	if state.rotation.Current() != wallpaper.SourceUnsplash {
		t.Fatalf("rotation should advance to unsplash, got %s", state.rotation.Current())
	}
	if notify.completes != 1 || notify.rotations != 1 || len(notify.errors) != 0 {
		t.Fatalf("notifier = %+v", notify)
	}
}

func TestRunCycleNoCandidates(t *testing.T) {
	state := &fakeState{}
	notify := &fakeNotifier{}
	p := newTestPipeline(&fakeAcquirer{}, &fakeDispatcher{}, state, notify)

	r := p.RunCycle(context.Background())
	if !r.Failed() {
		t.Fatal("expected cycle marked failed")
	}
	if state.stats.FailedBatches != 1 || state.stats.TotalSent != 0 {
		t.Fatalf("stats = %+v", state.stats)
	}
	if state.rotation.Current() != wallpaper.SourcePexels {
		t.Fatalf("failed batch must not rotate, got %s", state.rotation.Current())
	}
	if len(notify.errors) != 1 || notify.completes != 0 {
		t.Fatalf("notifier = %+v", notify)
	}
}

func TestRunCycleAllSendsFailed(t *testing.T) {
	state := &fakeState{}
	notify := &fakeNotifier{}
	p := newTestPipeline(&fakeAcquirer{batch: approved(3)}, &fakeDispatcher{sent: 0}, state, notify)

	r := p.RunCycle(context.Background())
	if !r.Failed() {
		t.Fatal("expected cycle marked failed")
	}
	// zero sent from three candidates: failed batch, all three filtered
	if state.stats.FailedBatches != 1 || state.stats.FilteredImages != 3 {
		t.Fatalf("stats = %+v", state.stats)
	}
	if notify.rotations != 0 {
		t.Fatal("zero-sent batch must not rotate")
	}
}

func TestRunCyclePartialSendStillRotates(t *testing.T) {
	state := &fakeState{}
	notify := &fakeNotifier{}
	p := newTestPipeline(&fakeAcquirer{batch: approved(3)}, &fakeDispatcher{sent: 1}, state, notify)

	r := p.RunCycle(context.Background())
	if r.Failed() {
		t.Fatalf("partial send should not fail the cycle: %+v", r.Steps)
	}
	if state.stats.SuccessfulBatches != 1 || state.stats.FilteredImages != 2 {
		t.Fatalf("stats = %+v", state.stats)
	}
	if state.rotation.Current() != wallpaper.SourceUnsplash {
		t.Fatal("batch with sends must rotate")
	}
}

func TestRunCycleRecoversFromPanic(t *testing.T) {
	state := &fakeState{}
	notify := &fakeNotifier{}
	p := newTestPipeline(&fakeAcquirer{batch: approved(2)}, &fakeDispatcher{panic: true}, state, notify)

	r := p.RunCycle(context.Background())
	if !r.Failed() {
		t.Fatal("expected panicked cycle marked failed")
	}
	if state.stats.FailedBatches != 1 {
		t.Fatalf("panic should count a failed batch, stats = %+v", state.stats)
	}
	if len(notify.errors) != 1 {
		t.Fatalf("notifier errors = %v", notify.errors)
	}
}

func TestRunCycleUsesPersistedRotation(t *testing.T) {
	state := &fakeState{rotation: rotation.State{Index: 2}}
	notify := &fakeNotifier{}
	p := newTestPipeline(&fakeAcquirer{batch: approved(1)}, &fakeDispatcher{sent: 1}, state, notify)

	r := p.RunCycle(context.Background())
	if r.Source != wallpaper.SourceWallhaven {
		t.Fatalf("source = %q, want wallhaven at index 2", r.Source)
	}
	if state.rotation.Current() != wallpaper.SourcePexels {
		t.Fatalf("rotation should wrap to pexels, got %s", state.rotation.Current())
	}
}
