package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/twisty"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Messages
type frameMsg time.Time
type batteryMsg int
type orientationMsg twisty.Orientation
type disconnectedMsg struct{ err error }

// animModel drives a Sequencer from the bubbletea frame loop. Moves come
// from the keyboard, from an Inbox fed by a device, or are queued up front.
type animModel struct {
	title    string
	seq      *twisty.Sequencer
	inbox    *twisty.Inbox
	interval time.Duration
	last     time.Time

	// keys enables typing moves; quitWhenIdle ends the program once the
	// queue drains.
	keys         bool
	quitWhenIdle bool

	// Device status
	device      string
	battery     int
	orientation *twisty.Orientation

	err      error
	quitting bool
}

func newAnimModel(title string, seq *twisty.Sequencer, interval time.Duration) *animModel {
	return &animModel{
		title:    title,
		seq:      seq,
		interval: interval,
		battery:  -1,
	}
}

func (m *animModel) Init() tea.Cmd {
	return m.frameCmd()
}

func (m *animModel) frameCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *animModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch k := msg.String(); k {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "ctrl+z":
			// Undo the last completed move
			if done := m.seq.Completed(); m.keys && len(done) > 0 {
				m.enqueue(done[len(done)-1].Inverse())
			}

		default:
			if mv, ok := keyMove(k); m.keys && ok {
				m.enqueue(mv)
			}
		}

	case frameMsg:
		t := time.Time(msg)
		var dt time.Duration
		if !m.last.IsZero() {
			dt = t.Sub(m.last)
		}
		m.last = t

		if m.inbox != nil {
			if err := m.inbox.Flush(m.seq); err != nil {
				m.err = err
			}
		}
		if err := m.seq.Update(dt); err != nil {
			m.err = err
		}

		if m.quitWhenIdle && m.seq.State() != twisty.StateAnimating {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.frameCmd()

	case batteryMsg:
		m.battery = int(msg)

	case orientationMsg:
		o := twisty.Orientation(msg)
		m.orientation = &o

	case disconnectedMsg:
		m.device = ""
		if msg.err != nil {
			m.err = msg.err
		}
	}

	return m, nil
}

func (m *animModel) enqueue(mv twisty.Move) {
	if err := m.seq.Enqueue(mv); err != nil {
		m.err = err
	}
}

// keyMove maps a key to a move: lower case turns clockwise, upper case
// counter-clockwise. Faces use their letter, slices m e s, rotations x y z.
func keyMove(k string) (twisty.Move, bool) {
	if len(k) != 1 {
		return twisty.Move{}, false
	}

	c := k[0]
	dir := twisty.CW
	if c >= 'A' && c <= 'Z' {
		dir = twisty.CCW
		c += 'a' - 'A'
	}

	var face twisty.Face
	switch c {
	case 'r', 'l', 'u', 'd', 'f', 'b', 'm', 'e', 's':
		face = twisty.Face(strings.ToUpper(string(c)))
	case 'x', 'y', 'z':
		face = twisty.Face(string(c))
	default:
		return twisty.Move{}, false
	}
	return twisty.Move{Face: face, Direction: dir}, true
}

func (m *animModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	// Device status
	if m.device != "" {
		status := fmt.Sprintf("Connected: %s", m.device)
		if m.battery >= 0 {
			status += fmt.Sprintf(" (Battery: %d%%)", m.battery)
		}
		if m.orientation != nil {
			status += fmt.Sprintf("  Up: %s  Front: %s", m.orientation.UpFace, m.orientation.FrontFace)
		}
		b.WriteString(statusStyle.Render(status))
		b.WriteString("\n\n")
	}

	b.WriteString(renderNet(m.seq.Assembly().Facelets()))
	b.WriteString("\n")

	// Animation state
	switch m.seq.State() {
	case twisty.StateAnimating:
		mv, _ := m.seq.Active()
		angle := m.seq.Assembly().Pivot().Angle() * 180 / math.Pi
		b.WriteString(fmt.Sprintf("Turning %s %s %6.1f°\n",
			activeStyle.Render(fmt.Sprintf("%-3s", mv.Notation())),
			progressBar(m.seq.Progress(), 20),
			angle,
		))
	case twisty.StateFaulted:
		b.WriteString(errorStyle.Render("HALTED"))
		b.WriteString("\n")
	default:
		if m.seq.Assembly().IsSolved() {
			b.WriteString(activeStyle.Render("SOLVED"))
		} else {
			b.WriteString(statusStyle.Render("idle"))
		}
		b.WriteString("\n")
	}

	if q := m.seq.Queue(); len(q) > 0 {
		b.WriteString(fmt.Sprintf("Queued (%d): %s\n", len(q), twisty.FormatMoves(tail(q, 20))))
	}

	// Recent moves
	if done := m.seq.Completed(); len(done) > 0 {
		b.WriteString(fmt.Sprintf("Moves (%d): ", len(done)))
		if len(done) > 20 {
			b.WriteString("... ")
		}
		b.WriteString(moveStyle.Render(twisty.FormatMoves(tail(done, 20))))
		b.WriteString("\n")
	}

	// Error
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "Keys: q=quit"
	if m.keys {
		help = "Keys: r l u d f b m e s x y z (shift=prime) | ctrl+z=undo | q=quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

func tail(moves []twisty.Move, n int) []twisty.Move {
	if len(moves) > n {
		return moves[len(moves)-n:]
	}
	return moves
}

func progressBar(p float64, width int) string {
	filled := int(math.Round(p * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func sticker(c twisty.Color) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(fmt.Sprintf("#%06x", c.RGB()))).
		Render("  ")
}

// renderNet draws the facelet net with colored stickers:
//
//	  U
//	L F R B
//	  D
func renderNet(f twisty.Facelets) string {
	var b strings.Builder
	pad := strings.Repeat(" ", 7)

	face := func(d twisty.Dir, row int) {
		for col := 0; col < 3; col++ {
			b.WriteString(sticker(f[d][row*3+col]))
		}
		b.WriteString(" ")
	}

	for row := 0; row < 3; row++ {
		b.WriteString(pad)
		face(twisty.DirUp, row)
		b.WriteString("\n")
	}
	for row := 0; row < 3; row++ {
		for _, d := range []twisty.Dir{twisty.DirLeft, twisty.DirFront, twisty.DirRight, twisty.DirBack} {
			face(d, row)
		}
		b.WriteString("\n")
	}
	for row := 0; row < 3; row++ {
		b.WriteString(pad)
		face(twisty.DirDown, row)
		b.WriteString("\n")
	}
	return b.String()
}
