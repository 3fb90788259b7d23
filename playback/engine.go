package playback

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"go.jacobcolvin.com/glyphvid/glyph"
	"go.jacobcolvin.com/glyphvid/keyboard"
	"go.jacobcolvin.com/glyphvid/video"
)

// DefaultColumns is the terminal width assumed when it cannot be queried.
const DefaultColumns = 80

// Option configures an [Engine].
type Option func(*Engine)

// WithColumns sets the terminal width in cells. By default the width is
// queried from the sink once per session.
func WithColumns(n int) Option {
	return func(e *Engine) {
		e.columns = n
	}
}

// WithKeyboard sets the reader watched for a keystroke that stops playback.
// A nil reader disables the watcher.
func WithKeyboard(r keyboard.Reader) Option {
	return func(e *Engine) {
		e.keyboard = r
	}
}

// WithTerminalCheck replaces the check deciding whether the sink is an
// interactive terminal.
func WithTerminalCheck(fn func(io.Writer) bool) Option {
	return func(e *Engine) {
		e.isTerminal = fn
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithTimer replaces the function used to wait between frames. The default
// is [time.After].
func WithTimer(fn func(time.Duration) <-chan time.Time) Option {
	return func(e *Engine) {
		e.timer = fn
	}
}

// Engine plays glyph videos on a terminal.
//
// Create instances with [New].
type Engine struct {
	out        io.Writer
	keyboard   keyboard.Reader
	isTerminal func(io.Writer) bool
	logger     *slog.Logger
	timer      func(time.Duration) <-chan time.Time
	columns    int
}

// New creates an [Engine] writing to out.
func New(out io.Writer, opts ...Option) *Engine {
	e := &Engine{
		out:        out,
		isTerminal: IsTerminal,
		logger:     slog.Default(),
		timer:      time.After,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	fd, ok := fdOf(w)
	if !ok {
		return false
	}

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func fdOf(w io.Writer) (uintptr, bool) {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0, false
	}

	return f.Fd(), true
}

// Rows returns the number of terminal rows a frame occupies at the given
// width. Frames holding newlines occupy one row per line.
func Rows(f glyph.Frame, columns int) int {
	if lines := f.Lines(); lines > 0 {
		return lines
	}

	if columns <= 0 {
		return 1
	}

	return max(1, f.Cells()/columns)
}

// Play renders every frame of v in place, holding each for v.Interval.
//
// Playback stops early when the keyboard reader returns a key or ctx is
// done; frames already written stay counted in the [Result]. When the sink is
// not a terminal nothing is written and the result state is [StateIdle].
// Write errors end the session and are returned.
func (e *Engine) Play(ctx context.Context, v *video.Video) (Result, error) {
	if v.Len() == 0 {
		return Result{State: StateCompleted}, nil
	}

	if !e.isTerminal(e.out) {
		e.logger.DebugContext(ctx, "output is not a terminal, skipping playback")

		return Result{State: StateIdle}, nil
	}

	columns := e.columns
	if columns <= 0 {
		columns = e.terminalColumns()
	}

	first := v.Frames[0]
	rows := Rows(first, columns)

	// A wrapped frame leaves the cursor on the line below its last row.
	up := rows
	if first.Lines() > 0 {
		up++
	}

	interval := max(v.Interval, time.Millisecond)

	e.logger.DebugContext(ctx, "starting playback",
		slog.Int("frames", v.Len()),
		slog.Int("columns", columns),
		slog.Int("rows", rows),
		slog.Duration("interval", interval),
	)

	watcher := keyboard.Watch(ctx, e.keyboard)
	bw := bufio.NewWriter(e.out)

	res, err := e.render(ctx, bw, v.Frames, watcher.Pressed(), interval, Reposition(up))

	e.logger.DebugContext(ctx, "playback stopped",
		slog.String("state", res.State.String()),
		slog.Int("rendered", res.Rendered),
	)

	// The reader holds the terminal in raw mode, which disables output
	// newline translation, so it must be released before the status line.
	stopErr := watcher.Stop()
	if stopErr != nil {
		e.logger.WarnContext(ctx, "keyboard watcher failed", slog.Any("error", stopErr))
	}

	status := StatusFinished
	if res.State == StateInterrupted {
		status = StatusInterrupted
	}

	_, cleanupErr := bw.WriteString(Cleanup(rows) + status)
	if cleanupErr == nil {
		cleanupErr = bw.Flush()
	}

	e.logger.DebugContext(ctx, "playback done")

	err = errors.Join(err, cleanupErr)
	if err != nil {
		return res, fmt.Errorf("write frame: %w", err)
	}

	return res, nil
}

func (e *Engine) render(
	ctx context.Context,
	bw *bufio.Writer,
	frames []glyph.Frame,
	pressed <-chan struct{},
	interval time.Duration,
	reposition string,
) (Result, error) {
	res := Result{State: StateRunning}

	for _, f := range frames {
		if stopped(ctx, pressed) {
			res.State = StateInterrupted

			return res, nil
		}

		_, err := bw.WriteString(f.String())
		if err == nil {
			err = bw.Flush()
		}

		if err != nil {
			res.State = StateInterrupted

			return res, err
		}

		res.Rendered++

		select {
		case <-e.timer(interval):
		case <-pressed:
		case <-ctx.Done():
		}

		_, err = bw.WriteString(reposition)
		if err != nil {
			res.State = StateInterrupted

			return res, err
		}
	}

	res.State = StateCompleted
	if stopped(ctx, pressed) {
		res.State = StateInterrupted
	}

	return res, nil
}

func stopped(ctx context.Context, pressed <-chan struct{}) bool {
	select {
	case <-pressed:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (e *Engine) terminalColumns() int {
	fd, ok := fdOf(e.out)
	if !ok {
		return DefaultColumns
	}

	w, _, err := term.GetSize(int(fd)) //nolint:gosec // File descriptors fit in int.
	if err != nil || w <= 0 {
		e.logger.Debug("terminal width unavailable, using default",
			slog.Int("columns", DefaultColumns),
			slog.Any("error", err),
		)

		return DefaultColumns
	}

	return w
}
