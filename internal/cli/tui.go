package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yash2003ruhela/mind-map/pkg/diagram"
	"github.com/yash2003ruhela/mind-map/pkg/editor"
	mmerrors "github.com/yash2003ruhela/mind-map/pkg/errors"
)

// TUI styles
var (
	tuiFrameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	tuiHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	tuiStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	tuiErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	tuiPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

const (
	// moveStep is how far one arrow press drags a node, in canvas pixels.
	moveStep = 10

	// bigMoveStep applies with shift held.
	bigMoveStep = 50

	defaultTermWidth  = 80
	defaultTermHeight = 24
)

type tuiMode int

const (
	modeNormal tuiMode = iota
	modeEdit           // typing a label
	modeMove           // arrows drag the grabbed node
	modeConfirmNew     // waiting for y/n before clearing
)

// exportFunc writes the PNG export of a view and returns the written paths.
type exportFunc func(editor.View) ([]string, error)

type exportDoneMsg struct {
	paths []string
	err   error
}

// =============================================================================
// editorModel - Interactive diagram editor
// =============================================================================

// editorModel is the bubbletea model behind `mindmap edit`.
type editorModel struct {
	sess   *editor.Session
	export exportFunc

	focus  int // index into the view's nodes, -1 when there are none
	mode   tuiMode
	input  []rune
	status string
	isErr  bool

	width, height int
}

func newEditorModel(sess *editor.Session, export exportFunc) editorModel {
	m := editorModel{
		sess:   sess,
		export: export,
		focus:  -1,
		width:  defaultTermWidth,
		height: defaultTermHeight,
		status: "keys are listed below",
	}
	m.fixFocus()
	return m
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case exportDoneMsg:
		if msg.err != nil {
			m.fail(msg.err)
		} else {
			m.info("exported %s", strings.Join(msg.paths, ", "))
		}
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeMove:
			return m.updateMove(msg)
		case modeConfirmNew:
			return m.updateConfirm(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m editorModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "a":
		n, err := m.sess.AddNode("")
		if err != nil {
			m.fail(err)
			break
		}
		m.focus = len(m.sess.View().Nodes) - 1
		m.info("added %s", n.ID)
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case " ", "space":
		id, ok := m.focusedID()
		if !ok {
			break
		}
		on, err := m.sess.Select(id)
		if err != nil {
			m.fail(err)
			break
		}
		if on {
			m.info("selected %s", id)
		} else {
			m.info("deselected %s", id)
		}
	case "esc":
		m.sess.ClearSelection()
		m.info("selection cleared")
	case "c":
		e, err := m.sess.Connect()
		if err != nil {
			m.fail(err)
			break
		}
		m.info("connected %s to %s", e.From, e.To)
	case "d":
		removed, err := m.sess.DeleteSelected()
		if err != nil {
			m.fail(err)
			break
		}
		m.fixFocus()
		m.info("deleted selection and %d edge(s)", len(removed))
	case "e":
		n, ok := m.focusedNode()
		if !ok {
			m.warn("focus a node to edit its label")
			break
		}
		m.input = []rune(n.Text)
		m.mode = modeEdit
	case "m":
		id, ok := m.focusedID()
		if !ok {
			m.warn("focus a node to move it")
			break
		}
		if err := m.sess.BeginDrag(id); err != nil {
			m.fail(err)
			break
		}
		m.mode = modeMove
		m.info("moving %s", id)
	case "u":
		m.step("undo", m.sess.Undo)
	case "r":
		m.step("redo", m.sess.Redo)
	case "n":
		m.mode = modeConfirmNew
	case "x":
		if m.export == nil {
			m.warn("export is not available")
			break
		}
		v, export := m.sess.View(), m.export
		m.info("exporting...")
		return m, func() tea.Msg {
			paths, err := export(v)
			return exportDoneMsg{paths: paths, err: err}
		}
	}
	return m, nil
}

func (m editorModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeNormal
		id, ok := m.focusedID()
		if !ok {
			break
		}
		if err := m.sess.EditLabel(id, string(m.input)); err != nil {
			m.fail(err)
			break
		}
		m.info("relabeled %s", id)
	case tea.KeyEsc:
		m.mode = modeNormal
		m.info("edit cancelled")
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func (m editorModel) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var dx, dy float64
	switch msg.String() {
	case "left":
		dx = -moveStep
	case "right":
		dx = moveStep
	case "up":
		dy = -moveStep
	case "down":
		dy = moveStep
	case "shift+left":
		dx = -bigMoveStep
	case "shift+right":
		dx = bigMoveStep
	case "shift+up":
		dy = -bigMoveStep
	case "shift+down":
		dy = bigMoveStep
	case "enter":
		m.mode = modeNormal
		moved, err := m.sess.EndDrag()
		switch {
		case err != nil:
			m.fail(err)
		case moved:
			m.info("moved")
		default:
			m.info("not moved")
		}
		return m, nil
	case "esc":
		m.mode = modeNormal
		m.sess.CancelDrag()
		m.info("move cancelled")
		return m, nil
	case "ctrl+c":
		m.sess.CancelDrag()
		return m, tea.Quit
	default:
		return m, nil
	}
	if _, err := m.sess.DragBy(dx, dy); err != nil {
		m.fail(err)
	}
	return m, nil
}

func (m editorModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	switch msg.String() {
	case "y", "Y":
		if err := m.sess.NewDiagram(); err != nil {
			m.fail(err)
			break
		}
		m.fixFocus()
		m.info("new diagram (u to undo)")
	default:
		m.info("kept the current diagram")
	}
	return m, nil
}

func (m *editorModel) step(name string, fn func() (bool, error)) {
	applied, err := fn()
	switch {
	case err != nil:
		m.fail(err)
	case !applied:
		m.warn("nothing to %s", name)
	default:
		m.fixFocus()
		m.info("%s", name)
	}
}

func (m *editorModel) cycle(delta int) {
	n := len(m.sess.View().Nodes)
	if n == 0 {
		m.focus = -1
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
}

// fixFocus keeps the focus index inside the node list after removals.
func (m *editorModel) fixFocus() {
	n := len(m.sess.View().Nodes)
	switch {
	case n == 0:
		m.focus = -1
	case m.focus < 0:
		m.focus = 0
	case m.focus >= n:
		m.focus = n - 1
	}
}

func (m editorModel) focusedNode() (diagram.Node, bool) {
	nodes := m.sess.View().Nodes
	if m.focus < 0 || m.focus >= len(nodes) {
		return diagram.Node{}, false
	}
	return nodes[m.focus], true
}

func (m editorModel) focusedID() (string, bool) {
	n, ok := m.focusedNode()
	return n.ID, ok
}

func (m *editorModel) info(format string, args ...any) {
	m.status, m.isErr = fmt.Sprintf(format, args...), false
}

func (m *editorModel) warn(format string, args ...any) {
	m.status, m.isErr = fmt.Sprintf(format, args...), true
}

func (m *editorModel) fail(err error) {
	m.status, m.isErr = mmerrors.UserMessage(err), true
}

func (m editorModel) View() string {
	v := m.sess.View()
	h := m.sess.History()
	focusID, _ := m.focusedID()

	var b strings.Builder
	b.WriteString(StyleTitle.Render("mindmap"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d nodes · %d edges · %d selected · undo %s · redo %s",
		len(v.Nodes), len(v.Edges), len(v.Selected), yesNo(h.CanUndo), yesNo(h.CanRedo))))
	b.WriteString("\n")

	cols := max(m.width-2, 10)
	rows := max(m.height-6, 5)
	b.WriteString(tuiFrameStyle.Render(strings.Join(drawCanvas(v, focusID, cols, rows), "\n")))
	b.WriteString("\n")

	switch m.mode {
	case modeEdit:
		b.WriteString(tuiPromptStyle.Render("label: ") + string(m.input) + "█")
	case modeConfirmNew:
		b.WriteString(tuiPromptStyle.Render("discard this diagram? (y/n)"))
	default:
		if m.isErr {
			b.WriteString(tuiErrorStyle.Render(m.status))
		} else {
			b.WriteString(tuiStatusStyle.Render(m.status))
		}
	}
	b.WriteString("\n")
	b.WriteString(tuiHelpStyle.Render(m.helpLine()))
	return b.String()
}

func (m editorModel) helpLine() string {
	switch m.mode {
	case modeEdit:
		return "⏎ apply  esc cancel"
	case modeMove:
		return "←↑→↓ move (shift: faster)  ⏎ drop  esc cancel"
	case modeConfirmNew:
		return "y confirm  any other key cancels"
	}
	return "a add  tab focus  space select  c connect  d delete  e edit  m move  u undo  r redo  n new  x export  q quit"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// =============================================================================
// Canvas drawing
// =============================================================================

// drawCanvas rasterises v onto a cols x rows character grid. Edges are
// drawn first so boxes cover them. Selected boxes use a double border and
// the focused box has a ▸ before its label.
func drawCanvas(v editor.View, focusID string, cols, rows int) []string {
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}

	bounds := v.Bounds()
	sx := bounds.W / float64(cols)
	sy := bounds.H / float64(rows)
	cell := func(p diagram.Point) (int, int) {
		return int(math.Floor(p.X / sx)), int(math.Floor(p.Y / sy))
	}
	set := func(x, y int, r rune) {
		if y >= 0 && y < rows && x >= 0 && x < cols {
			grid[y][x] = r
		}
	}

	for _, e := range v.Edges {
		x0, y0 := cell(e.Segment.From)
		x1, y1 := cell(e.Segment.To)
		line(x0, y0, x1, y1, func(x, y int) { set(x, y, '·') })
	}

	for _, n := range v.Nodes {
		x0, y0 := cell(n.Position())
		x1, y1 := cell(diagram.Point{X: n.X + v.NodeSize.W, Y: n.Y + v.NodeSize.H})
		x1 = max(x1-1, x0+2)
		y1 = max(y1-1, y0+2)

		border := []rune("┌┐└┘─│")
		if n.Selected {
			border = []rune("╔╗╚╝═║")
		}
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				set(x, y, ' ')
			}
			set(x, y0, border[4])
			set(x, y1, border[4])
		}
		for y := y0; y <= y1; y++ {
			set(x0, y, border[5])
			set(x1, y, border[5])
		}
		set(x0, y0, border[0])
		set(x1, y0, border[1])
		set(x0, y1, border[2])
		set(x1, y1, border[3])

		label := []rune(n.Text)
		if n.ID == focusID {
			label = append([]rune("▸"), label...)
		}
		inner := x1 - x0 - 1
		if len(label) > inner {
			if inner > 1 {
				label = append(label[:inner-1], '…')
			} else {
				label = label[:max(inner, 0)]
			}
		}
		start := x0 + 1 + (inner-len(label))/2
		mid := (y0 + y1) / 2
		for i, r := range label {
			set(start+i, mid, r)
		}
	}

	out := make([]string, rows)
	for i, row := range grid {
		out[i] = string(row)
	}
	return out
}

// line calls plot for every cell on the segment (x0,y0)-(x1,y1).
func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
