package popover

import (
	"testing"
	"time"

	"github.com/fieldmark/popover/pkg/geom"
)

// stubHost is a controllable Host for engine tests.
type stubHost struct {
	anchor       geom.Rect
	anchorOK     bool
	content      geom.Size
	contentOK    bool
	viewport     geom.Size
	inside       map[any]bool
	focusCalls   int
	contentReads int
}

func newStubHost() *stubHost {
	return &stubHost{
		anchor:    anchorAt(700, 720, 100, 100),
		anchorOK:  true,
		content:   geom.Size{Width: 150, Height: 250},
		contentOK: true,
		viewport:  geom.Size{Width: 1000, Height: 800},
		inside:    map[any]bool{},
	}
}

func (h *stubHost) AnchorRect() (geom.Rect, bool) { return h.anchor, h.anchorOK }

func (h *stubHost) ContentSize() (geom.Size, bool) {
	h.contentReads++
	return h.content, h.contentOK
}

func (h *stubHost) ViewportSize() geom.Size { return h.viewport }

func (h *stubHost) ContainsTarget(target any) bool { return h.inside[target] }

func (h *stubHost) FocusContent() { h.focusCalls++ }

// countingHooks tallies solve commits.
type countingHooks struct {
	solves  int
	commits int
}

func (c *countingHooks) OnMeasure(geom.Size, bool) {}

func (c *countingHooks) OnSolve(_ Placement, committed bool, _ time.Duration) {
	c.solves++
	if committed {
		c.commits++
	}
}

func TestEngineMount(t *testing.T) {
	host := newStubHost()
	frames := &manualFrames{}
	eng := New(host, WithPosition("top"), WithFrames(frames))

	if _, ok := eng.Placement(); ok {
		t.Fatal("placement set before mount")
	}

	eng.Mount()

	p, ok := eng.Placement()
	if !ok {
		t.Fatal("no placement after mount")
	}
	if p.YAxis != AxisTop || p.PopoverTop != 700 || p.PopoverLeft != 150 {
		t.Errorf("placement = %+v, want top/700/150", p)
	}
	if p.ContentHeight != nil {
		t.Errorf("ContentHeight = %v, want nil", *p.ContentHeight)
	}
	if host.focusCalls != 1 {
		t.Errorf("focus calls = %d, want 1", host.focusCalls)
	}

	// Mounting again must not re-run the pipeline.
	eng.Mount()
	if host.focusCalls != 1 {
		t.Errorf("focus calls after re-mount = %d, want 1", host.focusCalls)
	}
}

func TestEngineFocusOptOut(t *testing.T) {
	host := newStubHost()
	eng := New(host, WithFrames(&manualFrames{}), WithFocusOnMount(false))
	eng.Mount()

	if host.focusCalls != 0 {
		t.Errorf("focus calls = %d, want 0", host.focusCalls)
	}
}

func TestEngineNoSolveBeforeMeasurement(t *testing.T) {
	host := newStubHost()
	host.contentOK = false
	frames := &manualFrames{}
	eng := New(host, WithFrames(frames))
	eng.Mount()

	if _, ok := eng.Placement(); ok {
		t.Fatal("placement solved without a content measurement")
	}

	// Content becomes measurable: the next scheduled pass succeeds.
	host.contentOK = true
	eng.HandleResize()
	frames.Fire()

	if _, ok := eng.Placement(); !ok {
		t.Fatal("no placement after content became measurable")
	}
}

func TestEngineDetachedAnchorSkipsPass(t *testing.T) {
	host := newStubHost()
	host.anchorOK = false
	frames := &manualFrames{}
	eng := New(host, WithFrames(frames))
	eng.Mount()

	if _, ok := eng.Placement(); ok {
		t.Fatal("placement solved with a detached anchor")
	}

	host.anchorOK = true
	eng.HandleResize()
	frames.Fire()

	if _, ok := eng.Placement(); !ok {
		t.Fatal("no placement after anchor reattached")
	}
}

func TestEngineResizeCoalescing(t *testing.T) {
	host := newStubHost()
	frames := &manualFrames{}
	hooks := &countingHooks{}
	eng := New(host, WithFrames(frames), WithHooks(hooks))
	eng.Mount()

	before := hooks.solves
	for i := 0; i < 8; i++ {
		eng.HandleResize()
	}
	frames.Fire()

	if got := hooks.solves - before; got != 1 {
		t.Fatalf("solves after burst = %d, want 1", got)
	}
}

func TestEngineScrollFiltering(t *testing.T) {
	host := newStubHost()
	host.inside["panel-child"] = true
	frames := &manualFrames{}
	hooks := &countingHooks{}
	eng := New(host, WithFrames(frames), WithHooks(hooks))
	eng.Mount()

	before := hooks.solves
	eng.HandleScroll("panel-child")
	if frames.Fire() != 0 {
		t.Fatal("internal scroll scheduled a frame")
	}
	if hooks.solves != before {
		t.Fatal("internal scroll triggered a solve")
	}

	eng.HandleScroll("document-body")
	frames.Fire()
	if got := hooks.solves - before; got != 1 {
		t.Fatalf("solves after outside scroll = %d, want 1", got)
	}
}

func TestEngineCommitGate(t *testing.T) {
	host := newStubHost()
	frames := &manualFrames{}
	hooks := &countingHooks{}
	eng := New(host, WithPosition("top"), WithFrames(frames), WithHooks(hooks))
	eng.Mount()

	if hooks.commits != 1 {
		t.Fatalf("commits after mount = %d, want 1", hooks.commits)
	}

	// Nothing moved: the pass runs but nothing commits.
	eng.HandleResize()
	frames.Fire()
	if hooks.commits != 1 {
		t.Fatalf("commits after no-op resize = %d, want 1", hooks.commits)
	}

	// The anchor top moved but left/axes/mobile held still: still gated.
	host.anchor = anchorAt(690, 710, 100, 100)
	eng.HandleResize()
	frames.Fire()
	if hooks.commits != 1 {
		t.Fatalf("commits after top-only move = %d, want 1", hooks.commits)
	}

	// The anchor moved sideways: popoverLeft changes, commit.
	host.anchor = anchorAt(690, 710, 200, 100)
	eng.HandleResize()
	frames.Fire()
	if hooks.commits != 2 {
		t.Fatalf("commits after sideways move = %d, want 2", hooks.commits)
	}
	if p, _ := eng.Placement(); p.PopoverLeft != 250 {
		t.Errorf("PopoverLeft = %v, want 250", p.PopoverLeft)
	}
}

func TestEngineClampRefreshWithoutAxisChange(t *testing.T) {
	host := newStubHost()
	host.anchor = anchorAt(150, 170, 100, 100)
	host.viewport = geom.Size{Width: 1000, Height: 200}
	frames := &manualFrames{}
	eng := New(host, WithPosition("top"), WithFrames(frames))
	eng.Mount()

	p, _ := eng.Placement()
	if p.ContentHeight == nil || *p.ContentHeight != 150 {
		t.Fatalf("ContentHeight = %v, want 150", p.ContentHeight)
	}

	// Anchor slides up; the axis and left hold but the budget shrinks.
	host.anchor = anchorAt(120, 140, 100, 100)
	eng.HandleResize()
	frames.Fire()

	p, _ = eng.Placement()
	if p.ContentHeight == nil || *p.ContentHeight != 120 {
		t.Fatalf("ContentHeight after move = %v, want 120", p.ContentHeight)
	}
}

func TestEngineContentSizeGate(t *testing.T) {
	host := newStubHost()
	frames := &manualFrames{}
	eng := New(host, WithFrames(frames))
	eng.Mount()

	// Same size on every read: stored state must not churn, but the
	// measurement itself still happens each pass.
	reads := host.contentReads
	eng.HandleResize()
	frames.Fire()
	if host.contentReads != reads+1 {
		t.Fatalf("content reads = %d, want %d", host.contentReads, reads+1)
	}
}

func TestEngineSetPositionSkipsMeasurement(t *testing.T) {
	host := newStubHost()
	frames := &manualFrames{}
	eng := New(host, WithPosition("top"), WithFrames(frames))
	eng.Mount()

	reads := host.contentReads
	eng.SetPosition("bottom")

	if host.contentReads != reads {
		t.Errorf("content reads = %d, want %d (no re-measure)", host.contentReads, reads)
	}
	p, _ := eng.Placement()
	if p.YAxis != AxisBottom || p.PopoverTop != 720 {
		t.Errorf("placement = %+v, want bottom/720", p)
	}
}

func TestEngineUnmountCancelsPending(t *testing.T) {
	host := newStubHost()
	frames := &manualFrames{}
	hooks := &countingHooks{}
	eng := New(host, WithFrames(frames), WithHooks(hooks))
	eng.Mount()

	before := hooks.solves
	eng.HandleResize()
	eng.Unmount()

	if frames.Fire() != 0 {
		t.Fatal("pending frame survived unmount")
	}
	if hooks.solves != before {
		t.Fatal("solve ran after unmount")
	}

	// Events after unmount are ignored entirely.
	eng.HandleResize()
	eng.HandleScroll("document-body")
	if frames.Fire() != 0 {
		t.Fatal("unmounted engine scheduled a frame")
	}
}

func TestEngineAnchorRectOverride(t *testing.T) {
	host := newStubHost()
	virtual := anchorAt(300, 320, 400, 50)
	eng := New(host,
		WithPosition("top"),
		WithFrames(&manualFrames{}),
		WithAnchorRect(func() (geom.Rect, bool) { return virtual, true }),
	)
	eng.Mount()

	p, _ := eng.Placement()
	if p.PopoverTop != 300 || p.PopoverLeft != 425 {
		t.Errorf("placement = %+v, want top 300 left 425", p)
	}
}

func TestEngineEscapeCloses(t *testing.T) {
	closed := 0
	var seen []string
	eng := New(newStubHost(),
		WithFrames(&manualFrames{}),
		WithOnClose(func() { closed++ }),
		WithOnKeyDown(func(ev *KeyEvent) { seen = append(seen, ev.Key) }),
	)
	eng.Mount()

	esc := &KeyEvent{Key: KeyEscape}
	eng.HandleKeyDown(esc)

	if closed != 1 {
		t.Errorf("close calls = %d, want 1", closed)
	}
	if !esc.PropagationStopped() {
		t.Error("escape propagation not stopped")
	}
	// The configured key handler still receives the event afterwards.
	if len(seen) != 1 || seen[0] != KeyEscape {
		t.Errorf("key handler saw %v, want [escape]", seen)
	}

	other := &KeyEvent{Key: "tab"}
	eng.HandleKeyDown(other)
	if other.PropagationStopped() {
		t.Error("tab propagation stopped")
	}
	if closed != 1 {
		t.Errorf("close calls after tab = %d, want 1", closed)
	}
}

func TestEngineEscapeWithoutCloseHandler(t *testing.T) {
	eng := New(newStubHost(), WithFrames(&manualFrames{}))
	eng.Mount()

	esc := &KeyEvent{Key: KeyEscape}
	eng.HandleKeyDown(esc)
	if esc.PropagationStopped() {
		t.Error("escape consumed with no close handler configured")
	}
}

func TestEngineClose(t *testing.T) {
	closed := 0
	eng := New(newStubHost(), WithFrames(&manualFrames{}), WithOnClose(func() { closed++ }))

	// Close is handed to outside-interaction collaborators as a plain
	// arity-zero callback.
	dismiss := eng.Close
	dismiss()

	if closed != 1 {
		t.Errorf("close calls = %d, want 1", closed)
	}
}

func TestEngineMobileGating(t *testing.T) {
	host := newStubHost()
	host.viewport = geom.Size{Width: 600, Height: 800}
	host.anchor = anchorAt(400, 420, 100, 100)

	eng := New(host, WithFrames(&manualFrames{}), WithExpandOnMobile(true))
	eng.Mount()
	if p, _ := eng.Placement(); !p.IsMobile {
		t.Error("IsMobile = false below breakpoint with opt-in")
	}

	plain := New(host, WithFrames(&manualFrames{}))
	plain.Mount()
	if p, _ := plain.Placement(); p.IsMobile {
		t.Error("IsMobile = true without opt-in")
	}
}
