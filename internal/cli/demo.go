package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fieldmark/popover/pkg/geom"
	"github.com/fieldmark/popover/pkg/popover"
)

// cellPixels maps one terminal cell to this many CSS pixels, so the demo
// geometry lands in the same ranges a browser viewport would.
const cellPixels = 10

// demoPositions cycled by the "p" key.
var demoPositions = []string{
	"bottom center", "bottom left", "bottom right",
	"top center", "top left", "top right",
}

// newDemoCmd creates the demo command: an interactive playground where
// the terminal is the viewport and the engine re-solves live.
func newDemoCmd() *cobra.Command {
	var expandMobile bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive terminal playground for the positioning engine",
		Long: `Demo renders an anchor block and its popover panel in the terminal.
Move the anchor to the viewport edges to watch the placement flip sides,
shrink the window to watch the panel clamp. One terminal cell stands in
for 10 pixels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := newDemoModel(expandMobile)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&expandMobile, "expand-on-mobile", false, "opt into full-screen rendering below the mobile breakpoint")
	return cmd
}

// termHost adapts the terminal to the engine's Host interface. All sizes
// are CSS pixels; the model converts to cells only when drawing.
type termHost struct {
	anchor   geom.Rect
	content  geom.Size
	viewport geom.Size
}

func (h *termHost) AnchorRect() (geom.Rect, bool) { return h.anchor, true }

func (h *termHost) ContentSize() (geom.Size, bool) { return h.content, true }

func (h *termHost) ViewportSize() geom.Size { return h.viewport }

// ContainsTarget is always false: the terminal delivers no scroll events
// from inside the panel.
func (h *termHost) ContainsTarget(any) bool { return false }

// FocusContent is a no-op; the terminal has no focus tree.
func (h *termHost) FocusContent() {}

type demoModel struct {
	host   *termHost
	eng    *popover.Engine
	posIdx int

	cols, rows int // terminal size in cells, minus the status area
}

func newDemoModel(expandMobile bool) *demoModel {
	host := &termHost{
		anchor:   geom.NewRect(300, 200, 100, 20),
		content:  geom.Size{Width: 200, Height: 120},
		viewport: geom.Size{Width: 800, Height: 400},
	}
	m := &demoModel{host: host}

	// Frames run inline: bubbletea's update loop is already one event at
	// a time, so there is no burst to coalesce.
	m.eng = popover.New(host,
		popover.WithPosition(demoPositions[0]),
		popover.WithExpandOnMobile(expandMobile),
		popover.WithFocusOnMount(false),
		popover.WithFrames(popover.FrameFunc(func(fn func()) func() {
			fn()
			return func() {}
		})),
	)
	return m
}

func (m *demoModel) Init() tea.Cmd {
	m.eng.Mount()
	return nil
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height - 4 // status area
		if m.rows < 5 {
			m.rows = 5
		}
		m.host.viewport = geom.Size{
			Width:  float64(m.cols * cellPixels),
			Height: float64(m.rows * cellPixels),
		}
		m.clampAnchor()
		m.eng.HandleResize()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.eng.Unmount()
			return m, tea.Quit
		case "esc":
			ev := &popover.KeyEvent{Key: popover.KeyEscape}
			m.eng.HandleKeyDown(ev)
		case "up":
			m.moveAnchor(0, -cellPixels)
		case "down":
			m.moveAnchor(0, cellPixels)
		case "left":
			m.moveAnchor(-cellPixels, 0)
		case "right":
			m.moveAnchor(cellPixels, 0)
		case "+":
			m.resizeContent(0, cellPixels)
		case "-":
			m.resizeContent(0, -cellPixels)
		case ">":
			m.resizeContent(cellPixels, 0)
		case "<":
			m.resizeContent(-cellPixels, 0)
		case "p":
			m.posIdx = (m.posIdx + 1) % len(demoPositions)
			m.eng.SetPosition(demoPositions[m.posIdx])
		}
	}
	return m, nil
}

func (m *demoModel) moveAnchor(dx, dy float64) {
	a := m.host.anchor
	m.host.anchor = geom.NewRect(a.X+dx, a.Y+dy, a.Width, a.Height)
	m.clampAnchor()
	// Anchor moves arrive as scroll events in a real host.
	m.eng.HandleScroll(nil)
}

func (m *demoModel) resizeContent(dw, dh float64) {
	c := m.host.content
	c.Width += dw
	c.Height += dh
	if c.Width < cellPixels {
		c.Width = cellPixels
	}
	if c.Height < cellPixels {
		c.Height = cellPixels
	}
	m.host.content = c
	m.eng.Refresh()
}

// clampAnchor keeps the anchor inside the viewport.
func (m *demoModel) clampAnchor() {
	a := m.host.anchor
	vp := m.host.viewport
	x, y := a.X, a.Y
	if x+a.Width > vp.Width {
		x = vp.Width - a.Width
	}
	if y+a.Height > vp.Height {
		y = vp.Height - a.Height
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	m.host.anchor = geom.NewRect(x, y, a.Width, a.Height)
}

func (m *demoModel) View() string {
	if m.cols == 0 || m.rows == 0 {
		return "measuring terminal..."
	}

	placement, ok := m.eng.Placement()

	// Paint the viewport grid, then overlay the panel and anchor.
	grid := make([][]rune, m.rows)
	for y := range grid {
		grid[y] = make([]rune, m.cols)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}
	if ok {
		m.paintPanel(grid, placement)
	}
	m.paintAnchor(grid)

	var b strings.Builder
	clamped := ok && (placement.ContentHeight != nil || placement.ContentWidth != nil)
	for _, row := range grid {
		b.WriteString(m.styleRow(string(row), clamped))
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine(placement, ok))
	return b.String()
}

// paintAnchor draws the anchor block.
func (m *demoModel) paintAnchor(grid [][]rune) {
	a := m.host.anchor
	x0, y0 := int(a.Left)/cellPixels, int(a.Top)/cellPixels
	x1, y1 := int(a.Right)/cellPixels, int(a.Bottom)/cellPixels
	for y := y0; y < y1 && y < m.rows; y++ {
		for x := x0; x < x1 && x < m.cols; x++ {
			if y >= 0 && x >= 0 {
				grid[y][x] = '▒'
			}
		}
	}
}

// paintPanel draws the popover panel box for the given placement.
func (m *demoModel) paintPanel(grid [][]rune, p popover.Placement) {
	width := m.host.content.Width
	if p.ContentWidth != nil {
		width = *p.ContentWidth
	}
	height := m.host.content.Height
	if p.ContentHeight != nil {
		height = *p.ContentHeight
	}
	if p.IsMobile {
		// Mobile expansion bypasses the computed geometry entirely.
		width, height = m.host.viewport.Width, m.host.viewport.Height
	}

	var left, top float64
	switch p.XAxis {
	case popover.AxisCenter:
		left = p.PopoverLeft - width/2
	case popover.AxisLeft:
		left = p.PopoverLeft - width
	case popover.AxisRight:
		left = p.PopoverLeft
	}
	if p.YAxis == popover.AxisTop {
		top = p.PopoverTop - height
	} else {
		top = p.PopoverTop
	}
	if p.IsMobile {
		left, top = 0, 0
	}

	x0, y0 := int(left)/cellPixels, int(top)/cellPixels
	x1, y1 := int(left+width)/cellPixels, int(top+height)/cellPixels
	for y := y0; y < y1; y++ {
		if y < 0 || y >= m.rows {
			continue
		}
		for x := x0; x < x1; x++ {
			if x < 0 || x >= m.cols {
				continue
			}
			grid[y][x] = '█'
		}
	}
}

// styleRow colors panel and anchor cells in one grid row.
func (m *demoModel) styleRow(row string, clamped bool) string {
	panelStyle := stylePanel
	if clamped {
		panelStyle = stylePanelClamped
	}
	row = strings.ReplaceAll(row, "█", panelStyle.Render("█"))
	return strings.ReplaceAll(row, "▒", styleAnchor.Render("▒"))
}

func (m *demoModel) statusLine(p popover.Placement, ok bool) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("popover demo"))
	b.WriteString("  ")
	b.WriteString(styleDim.Render("arrows move anchor  +/- height  </> width  p position  esc close  q quit"))
	b.WriteString("\n")

	b.WriteString(styleDim.Render("prefer "))
	b.WriteString(styleValue.Render(demoPositions[m.posIdx]))
	if !ok {
		b.WriteString(styleDim.Render("  (no placement yet)"))
		return b.String()
	}

	b.WriteString(styleDim.Render("  placed "))
	b.WriteString(styleValue.Render(fmt.Sprintf("%s %s", p.YAxis, p.XAxis)))
	b.WriteString(styleDim.Render("  at "))
	b.WriteString(styleValue.Render(fmt.Sprintf("%.0f,%.0f", p.PopoverLeft, p.PopoverTop)))
	if p.ContentHeight != nil {
		b.WriteString(styleDim.Render("  clamp-h "))
		b.WriteString(styleValue.Render(fmt.Sprintf("%.0fpx", *p.ContentHeight)))
	}
	if p.ContentWidth != nil {
		b.WriteString(styleDim.Render("  clamp-w "))
		b.WriteString(styleValue.Render(fmt.Sprintf("%.0fpx", *p.ContentWidth)))
	}
	if p.IsMobile {
		b.WriteString(styleDim.Render("  mobile"))
	}
	return b.String()
}
