package popover

import (
	"sync"
	"time"
)

// Frames schedules a callback for the next animation frame. Request
// returns a cancel function; cancelling after the callback has started is
// a no-op.
type Frames interface {
	Request(fn func()) (cancel func())
}

// FrameFunc adapts an ordinary function to the Frames interface, in the
// manner of http.HandlerFunc.
type FrameFunc func(fn func()) (cancel func())

// Request calls f.
func (f FrameFunc) Request(fn func()) (cancel func()) { return f(fn) }

// DefaultFrameInterval approximates a 60fps display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// TickerFrames implements Frames on wall-clock timers. Each request fires
// once after the frame interval, standing in for a display's vsync signal
// in hosts that don't have one.
type TickerFrames struct {
	interval time.Duration
}

// NewTickerFrames creates a Frames implementation ticking at the given
// interval; zero or negative intervals fall back to DefaultFrameInterval.
func NewTickerFrames(interval time.Duration) *TickerFrames {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerFrames{interval: interval}
}

// Request schedules fn after one frame interval.
func (f *TickerFrames) Request(fn func()) (cancel func()) {
	t := time.AfterFunc(f.interval, fn)
	return func() { t.Stop() }
}

var _ Frames = (*TickerFrames)(nil)

// Scheduler coalesces bursts of change events into at most one pending
// recomputation. Scheduling while a task is pending cancels and replaces
// it, so the last scheduled task is the only one that runs.
type Scheduler struct {
	frames Frames

	mu     sync.Mutex
	gen    uint64
	cancel func()
}

// NewScheduler creates a scheduler on top of the given frame source.
func NewScheduler(frames Frames) *Scheduler {
	return &Scheduler{frames: frames}
}

// Schedule queues fn for the next frame, replacing any pending task.
//
// The frame source and any previous cancel function are invoked with the
// lock released, so Frames implementations that run their callback
// synchronously inside Request are safe. The generation counter decides
// which request is current when schedules overlap.
func (s *Scheduler) Schedule(fn func()) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	prev := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if prev != nil {
		prev()
	}

	started := false // guarded by s.mu
	cancel := s.frames.Request(func() {
		s.mu.Lock()
		started = true
		if s.gen == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
		fn()
	})

	s.mu.Lock()
	current := s.gen == gen
	if current && !started {
		s.cancel = cancel
	}
	s.mu.Unlock()

	// A newer schedule or a Stop raced in before the request landed;
	// this request lost and must not fire.
	if !current {
		cancel()
	}
}

// Stop cancels any pending task. The scheduler remains usable afterwards;
// owners call Stop again on teardown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.gen++
	prev := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
}
