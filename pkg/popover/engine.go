package popover

import (
	"sync"
	"time"

	"github.com/fieldmark/popover/pkg/geom"
)

// Host is the injected viewport-and-measurement provider. It abstracts
// whatever actually renders the popover - a DOM bridge, a terminal, a test
// stub - behind the four capabilities the engine needs.
//
// The measurement methods (AnchorRect, ContentSize, ViewportSize,
// ContainsTarget) are called with the engine's internal lock held and
// must not call back into the engine. FocusContent is called outside the
// lock and may interact with the engine freely.
type Host interface {
	// AnchorRect measures the anchor. False means the anchor is detached
	// and the positioning pass must be skipped.
	AnchorRect() (geom.Rect, bool)

	// ContentSize measures the content panel's rendered size. False means
	// the panel is not mounted yet and the measurement is skipped.
	ContentSize() (geom.Size, bool)

	// ViewportSize reads the live viewport dimensions.
	ViewportSize() geom.Size

	// ContainsTarget reports whether an event target lies inside the
	// content panel's own subtree. Scroll events from inside the panel
	// must not reposition it.
	ContainsTarget(target any) bool

	// FocusContent moves keyboard focus to the first focusable descendant
	// of the content panel, or the panel itself if none exists.
	FocusContent()
}

// Hooks receives engine events for logging and metrics. Implementations
// must be fast; they run on the solve path.
type Hooks interface {
	// OnMeasure fires after each content measurement. changed is true when
	// the stored size was updated.
	OnMeasure(size geom.Size, changed bool)

	// OnSolve fires after each completed solve pass. committed is true
	// when the placement state was updated.
	OnSolve(p Placement, committed bool, elapsed time.Duration)
}

type nopHooks struct{}

func (nopHooks) OnMeasure(geom.Size, bool) {}

func (nopHooks) OnSolve(Placement, bool, time.Duration) {}

// KeyEvent is a keyboard event delivered to the content panel.
type KeyEvent struct {
	Key string

	stopped bool
}

// KeyEscape is the key name that triggers close signaling.
const KeyEscape = "escape"

// StopPropagation marks the event as consumed; the host must not forward
// it to ancestor handlers.
func (e *KeyEvent) StopPropagation() { e.stopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *KeyEvent) PropagationStopped() bool { return e.stopped }

// Option configures an Engine.
type Option func(*Engine)

// WithPosition sets the initial placement preference string, e.g. "top
// left". The default is "bottom center".
func WithPosition(position string) Option {
	return func(e *Engine) { e.pref = ParsePosition(position) }
}

// WithAnchorRect overrides the host's anchor measurement, e.g. for virtual
// or range-based anchors.
func WithAnchorRect(fn geom.AnchorRectFunc) Option {
	return func(e *Engine) { e.anchorRect = fn }
}

// WithExpandOnMobile opts the popover into full-screen rendering below the
// mobile breakpoint.
func WithExpandOnMobile(expand bool) Option {
	return func(e *Engine) { e.expandOnMobile = expand }
}

// WithFocusOnMount controls the focus handoff on mount. Enabled by default.
func WithFocusOnMount(focus bool) Option {
	return func(e *Engine) { e.focusOnMount = focus }
}

// WithOnClose sets the close handler. It is invoked by Escape keydowns and
// exposed through Close for outside-interaction collaborators.
func WithOnClose(fn func()) Option {
	return func(e *Engine) { e.onClose = fn }
}

// WithOnKeyDown sets a key handler that receives every key event delivered
// to the panel, after close signaling has run.
func WithOnKeyDown(fn func(*KeyEvent)) Option {
	return func(e *Engine) { e.onKeyDown = fn }
}

// WithFrames replaces the animation-frame source. The default fires on
// wall-clock timers at roughly 60fps.
func WithFrames(frames Frames) Option {
	return func(e *Engine) { e.scheduler = NewScheduler(frames) }
}

// WithHooks attaches engine event hooks.
func WithHooks(hooks Hooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// Engine is the lifecycle coordinator: it wires measurement, solving and
// the reactive scheduler together and holds the committed placement.
//
// All state lives behind one mutex. Hosts may deliver events from any
// goroutine; within one frame at most one solve executes, and a later
// scheduled frame supersedes an earlier one.
type Engine struct {
	host      Host
	scheduler *Scheduler
	hooks     Hooks

	anchorRect     geom.AnchorRectFunc
	expandOnMobile bool
	focusOnMount   bool
	onClose        func()
	onKeyDown      func(*KeyEvent)

	mu          sync.Mutex
	pref        Preference
	contentSize *geom.Size
	placement   *Placement
	mounted     bool
}

// New creates an engine around the given host. The engine does nothing
// until Mount is called.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{
		host:         host,
		scheduler:    NewScheduler(NewTickerFrames(0)),
		hooks:        nopHooks{},
		pref:         Preference{YAxis: AxisBottom, XAxis: AxisCenter},
		focusOnMount: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.anchorRect == nil {
		e.anchorRect = e.host.AnchorRect
	}
	return e
}

// Mount measures the content, runs the first solve, hands off keyboard
// focus and starts reacting to events. Calling Mount on a mounted engine
// is a no-op.
func (e *Engine) Mount() {
	e.mu.Lock()
	if e.mounted {
		e.mu.Unlock()
		return
	}
	e.mounted = true
	e.measureLocked()
	e.solveLocked()
	focus := e.focusOnMount
	e.mu.Unlock()

	if focus {
		e.host.FocusContent()
	}
}

// Unmount stops the engine: pending frames are cancelled and subsequent
// events are ignored. Idempotent.
func (e *Engine) Unmount() {
	e.mu.Lock()
	e.mounted = false
	e.mu.Unlock()

	e.scheduler.Stop()
}

// Placement returns the committed placement. The boolean is false before
// the first successful solve.
func (e *Engine) Placement() (Placement, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.placement == nil {
		return Placement{}, false
	}
	return *e.placement, true
}

// SetPosition changes the placement preference and re-solves immediately,
// without re-measuring the content.
func (e *Engine) SetPosition(position string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pref = ParsePosition(position)
	e.solveLocked()
}

// HandleResize schedules a recomputation for the next frame.
func (e *Engine) HandleResize() {
	e.mu.Lock()
	mounted := e.mounted
	e.mu.Unlock()
	if !mounted {
		return
	}
	e.scheduler.Schedule(e.refresh)
}

// HandleScroll schedules a recomputation unless the scroll originated
// inside the content panel's own subtree.
func (e *Engine) HandleScroll(target any) {
	e.mu.Lock()
	if !e.mounted {
		e.mu.Unlock()
		return
	}
	inside := e.host.ContainsTarget(target)
	e.mu.Unlock()
	if inside {
		return
	}
	e.scheduler.Schedule(e.refresh)
}

// Refresh re-measures and re-solves synchronously. Hosts call this when
// they know the content changed outside the resize/scroll signals, e.g.
// after swapping panel contents.
func (e *Engine) Refresh() {
	e.refresh()
}

// Close invokes the configured close handler. It is the arity-zero
// callback handed to outside-interaction collaborators.
func (e *Engine) Close() {
	if e.onClose != nil {
		e.onClose()
	}
}

// HandleKeyDown processes a key event delivered to the content panel.
// Escape stops propagation and invokes the close handler when one is
// configured; any configured key handler receives the event afterwards.
func (e *Engine) HandleKeyDown(ev *KeyEvent) {
	if ev.Key == KeyEscape && e.onClose != nil {
		ev.StopPropagation()
		e.onClose()
	}
	if e.onKeyDown != nil {
		e.onKeyDown(ev)
	}
}

// refresh is the scheduled frame callback: one measurement pass plus one
// solve pass. A refresh that lands after Unmount is a no-op.
func (e *Engine) refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mounted {
		return
	}
	e.measureLocked()
	e.solveLocked()
}

// measureLocked reads the content panel's size and stores it when it
// differs from the last stored value. The equality gate is what keeps
// unrelated re-renders from looping measure → update → re-render.
func (e *Engine) measureLocked() {
	size, ok := e.host.ContentSize()
	if !ok {
		return
	}
	if e.contentSize != nil && e.contentSize.Width == size.Width && e.contentSize.Height == size.Height {
		e.hooks.OnMeasure(size, false)
		return
	}
	e.contentSize = &size
	e.hooks.OnMeasure(size, true)
}

// solveLocked runs one positioning pass. It no-ops until the first content
// measurement has succeeded and whenever the anchor is detached.
func (e *Engine) solveLocked() {
	if e.contentSize == nil {
		return
	}
	anchor, ok := e.anchorRect()
	if !ok {
		return
	}

	start := time.Now()
	next := Solve(*e.contentSize, anchor, e.pref, e.host.ViewportSize(), e.expandOnMobile)

	// Commit when the anchoring fields moved; refresh the clamp budgets
	// whenever they differ even if the anchoring held still. PopoverTop
	// alone never triggers a commit.
	committed := false
	switch {
	case e.placement == nil || !e.placement.sameAnchoring(next):
		e.placement = &next
		committed = true
	case !e.placement.sameClamping(next):
		e.placement.ContentHeight = next.ContentHeight
		e.placement.ContentWidth = next.ContentWidth
		committed = true
	}
	e.hooks.OnSolve(next, committed, time.Since(start))
}
