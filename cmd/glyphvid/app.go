package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"go.jacobcolvin.com/glyphvid/config"
	"go.jacobcolvin.com/glyphvid/glyph"
	"go.jacobcolvin.com/glyphvid/log"
	"go.jacobcolvin.com/glyphvid/profile"
	"go.jacobcolvin.com/glyphvid/progress"
	"go.jacobcolvin.com/glyphvid/source"
	"go.jacobcolvin.com/glyphvid/video"
)

// Fallback frame size when neither flags nor the terminal provide one.
const (
	fallbackColumns = 80
	fallbackRows    = 24
)

// app holds the state shared by every command.
type app struct {
	stdin      *os.File
	stdout     io.Writer
	stderr     io.Writer
	cfg        *config.Config
	profile    *profile.Config
	profiler   *profile.Profiler
	logger     *slog.Logger
	logs       *logSink
	tail       *log.Tail
	noProgress bool
}

func newApp(stdin *os.File, stdout, stderr io.Writer) *app {
	return &app{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		cfg:     config.NewConfig(),
		profile: profile.NewConfig(),
		logs:    &logSink{w: stderr},
		tail:    log.NewTail(1),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// setup merges the configuration file, builds the logger, and starts the
// profiler. It runs before every command.
func (a *app) setup(ctx context.Context, flags *pflag.FlagSet) error {
	err := a.cfg.Load(flags)
	if err != nil {
		return err
	}

	logger, err := a.cfg.Log.NewLogger(io.MultiWriter(a.logs, a.tail))
	if err != nil {
		return err
	}

	a.logger = logger
	a.logger.DebugContext(ctx, "configured",
		slog.String("config", a.cfg.Path),
		slog.String("decoder", a.cfg.Decoder),
		slog.String("keyboard", a.cfg.Keyboard),
	)

	a.profiler = a.profile.NewProfiler(profile.WithLogger(a.logger))

	return a.profiler.Start()
}

// teardown stops the profiler if setup started one.
func (a *app) teardown() error {
	if a.profiler == nil {
		return nil
	}

	return a.profiler.Stop()
}

// openVideo loads a container, or decodes and converts any other input.
func (a *app) openVideo(ctx context.Context, path string) (*video.Video, error) {
	if video.IsContainer(path) {
		a.logger.DebugContext(ctx, "loading container", slog.String("path", path))

		v, err := video.LoadFile(path, a.cfg.Interval)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}

		return v, nil
	}

	return a.generate(ctx, path)
}

func (a *app) generate(ctx context.Context, path string) (*video.Video, error) {
	asm, err := a.cfg.NewAssembler()
	if err != nil {
		return nil, err
	}

	src, err := source.Open(ctx, path, source.Options{
		Decoder:   a.cfg.Decoder,
		FrameRate: a.cfg.FPS,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		err := src.Close()
		if err != nil {
			a.logger.WarnContext(ctx, "close source", slog.Any("error", err))
		}
	}()

	target := a.frameSize()

	opts := []video.GenerateOption{video.WithLogger(a.logger)}
	if a.cfg.Concurrency > 0 {
		opts = append(opts, video.WithConcurrency(a.cfg.Concurrency))
	}

	if a.showProgress() {
		rep := progress.NewReporter(a.stderr, "converting "+path, a.tail)

		// Logs go to the display while it owns the terminal.
		a.logs.Swap(io.Discard)
		rep.Start()

		defer func() {
			err := rep.Finish()
			a.logs.Swap(a.stderr)

			if err != nil {
				a.logger.WarnContext(ctx, "progress display", slog.Any("error", err))
			}
		}()

		opts = append(opts, video.WithProgress(rep.Update))
	}

	v, err := video.Generate(ctx, src, asm, target, opts...)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}

	a.logger.InfoContext(ctx, "converted video",
		slog.String("path", path),
		slog.Int("frames", v.Len()),
		slog.Duration("interval", v.Interval),
		slog.Int("columns", target.Columns),
		slog.Int("rows", target.Rows),
	)

	return v, nil
}

// frameSize returns the configured frame size, filling unset dimensions
// from the terminal.
func (a *app) frameSize() glyph.Dimensions {
	d := a.cfg.Dimensions()
	if d.Columns > 0 && d.Rows > 0 {
		return d
	}

	cols, rows := fallbackColumns, fallbackRows

	if f, ok := a.stdout.(*os.File); ok {
		w, h, err := term.GetSize(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
		if err == nil && w > 0 && h > 0 {
			cols, rows = w, h
		}
	}

	if d.Columns <= 0 {
		d.Columns = cols
	}

	if d.Rows <= 0 {
		d.Rows = rows
	}

	return d
}

func (a *app) showProgress() bool {
	if a.noProgress {
		return false
	}

	f, ok := a.stderr.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// logSink is an [io.Writer] whose destination can be swapped while logging.
type logSink struct {
	w  io.Writer
	mu sync.Mutex
}

func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(p) //nolint:wrapcheck // Transparent writer.
}

// Swap replaces the destination.
func (s *logSink) Swap(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w = w
}
