// Package progress draws a progress bar while a video is converted to glyph
// frames.
//
// The display is a small Bubble Tea program: a title, a gradient bar with a
// frame counter, and the most recent log line. A [Reporter] owns the program
// and is driven from the conversion's progress callback.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"go.jacobcolvin.com/glyphvid/log"
)

const (
	defaultWidth = 80
	maxBarWidth  = 60
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	logStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Msg reports conversion progress to a [Model]. Total is 0 when the frame
// count is unknown.
type Msg struct {
	Done  int
	Total int
}

type finishMsg struct{}

// Model is the Bubble Tea model of the progress display.
type Model struct {
	start time.Time
	tail  *log.Tail
	title string
	bar   progress.Model
	Msg
	width    int
	finished bool
}

// NewModel creates a [Model]. tail may be nil.
func NewModel(title string, tail *log.Tail) *Model {
	m := &Model{
		title: title,
		tail:  tail,
		start: time.Now(),
		bar:   progress.New(progress.WithDefaultGradient()),
	}
	m.resize(defaultWidth)

	return m
}

func (m *Model) resize(width int) {
	m.width = width
	m.bar.Width = max(min(width-lipgloss.Width(m.counter())-2, maxBarWidth), 10)
}

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements [tea.Model].
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)

	case Msg:
		m.Msg = msg
		m.resize(m.width)

	case finishMsg:
		m.finished = true

		return m, tea.Quit
	}

	return m, nil
}

// View implements [tea.Model].
func (m *Model) View() tea.View {
	return tea.NewView(m.String())
}

// Percent returns the completed fraction, or 0 when the total is unknown.
func (m *Model) Percent() float64 {
	if m.Total <= 0 {
		return 0
	}

	return min(float64(m.Done)/float64(m.Total), 1)
}

func (m *Model) counter() string {
	if m.Total <= 0 {
		return fmt.Sprintf("%d frames", m.Done)
	}

	return fmt.Sprintf("%d/%d frames", m.Done, m.Total)
}

// String renders the display.
func (m *Model) String() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString(countStyle.Render(fmt.Sprintf(" %s", time.Since(m.start).Round(time.Second))))
	sb.WriteString("\n")
	sb.WriteString(m.bar.ViewAs(m.Percent()))
	sb.WriteString(" ")
	sb.WriteString(countStyle.Render(m.counter()))
	sb.WriteString("\n")

	if m.tail != nil {
		if last := m.tail.Last(); last != "" {
			sb.WriteString(logStyle.Render(truncate(last, m.width)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}

	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}

	return string(r) + "…"
}

// Reporter runs a progress display on a writer.
//
// Create instances with [NewReporter].
type Reporter struct {
	program *tea.Program
	done    chan struct{}
	err     error
	once    sync.Once
}

// NewReporter creates a [Reporter] drawing to out. tail, when not nil,
// supplies the log line shown under the bar.
func NewReporter(out io.Writer, title string, tail *log.Tail) *Reporter {
	return &Reporter{
		program: tea.NewProgram(NewModel(title, tail),
			tea.WithInput(nil),
			tea.WithOutput(out),
		),
		done: make(chan struct{}),
	}
}

// Start runs the display in the background.
func (r *Reporter) Start() {
	go func() {
		defer close(r.done)

		_, err := r.program.Run()
		r.err = err
	}()
}

// Update reports progress. Its signature fits video.WithProgress.
func (r *Reporter) Update(done, total int) {
	r.program.Send(Msg{Done: done, Total: total})
}

// Finish draws the final state, stops the display, and waits for it to exit.
// It is safe to call more than once.
func (r *Reporter) Finish() error {
	r.once.Do(func() {
		r.program.Send(finishMsg{})
	})
	<-r.done

	if r.err != nil {
		return fmt.Errorf("progress display: %w", r.err)
	}

	return nil
}
