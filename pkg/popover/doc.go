// Package popover implements a viewport-aware positioning engine for
// floating overlay panels.
//
// The engine takes three live measurements - the anchor rectangle, the
// content panel's rendered size, and the viewport size - and decides where
// the panel goes: which vertical side of the anchor (top or bottom), which
// horizontal alignment (left, center or right), and how much of the
// content's natural size fits before it must be clamped. When the preferred
// side lacks room the engine flips to the other side; when neither side has
// room it clamps to the larger budget.
//
// # Architecture
//
// The package splits into four pieces:
//
//   - Solve: a pure function from measurements to a Placement. All flip and
//     clamp decisions live here and are deterministic.
//   - Host: the injected measurement provider. The engine never touches a
//     window or document directly, so the solver runs identically under a
//     DOM bridge, the terminal playground, or a test stub.
//   - Scheduler: coalesces bursts of resize/scroll events into at most one
//     recomputation per animation frame, via a cancel-and-replace scheduled
//     task.
//   - Engine: the lifecycle coordinator. Mount measures, solves, hands off
//     focus and starts watching; Unmount detaches and cancels any pending
//     frame.
//
// # Usage
//
//	eng := popover.New(host,
//	    popover.WithPosition("top center"),
//	    popover.WithOnClose(dismiss),
//	)
//	eng.Mount()
//	defer eng.Unmount()
//
//	// Host glue forwards window events:
//	eng.HandleResize()
//	eng.HandleScroll(target)
//
//	if p, ok := eng.Placement(); ok {
//	    applyStyle(p)
//	}
//
// Failures degrade gracefully: a detached anchor, an unmeasurable content
// panel or an unparsable padding value skip the pass and the engine retries
// on the next scheduled event. There is no fatal error path.
package popover
