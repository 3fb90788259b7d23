package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.jacobcolvin.com/glyphvid/glyph"
	"go.jacobcolvin.com/glyphvid/source"
)

// GenerateOption configures [Generate].
type GenerateOption func(*generator)

type generator struct {
	logger      *slog.Logger
	progress    func(done, total int)
	concurrency int
	layout      glyph.Layout
}

// WithProgress registers fn to be called after each frame is assembled.
// total is the source's reported frame count, or 0 when it is unknown. Calls
// are serialized and done increases by one each time.
func WithProgress(fn func(done, total int)) GenerateOption {
	return func(g *generator) {
		g.progress = fn
	}
}

// WithConcurrency bounds the number of frames assembled in parallel. Values
// less than 1 are clamped to 1. The default is [runtime.GOMAXPROCS].
func WithConcurrency(n int) GenerateOption {
	return func(g *generator) {
		g.concurrency = max(n, 1)
	}
}

// WithLayout overrides the frame layout. The default is [glyph.Fill], which
// keeps each frame on one container line.
func WithLayout(l glyph.Layout) GenerateOption {
	return func(g *generator) {
		g.layout = l
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(l *slog.Logger) GenerateOption {
	return func(g *generator) {
		g.logger = l
	}
}

// Generate converts every frame of src into a glyph frame sized for target.
//
// Frames are decoded in order and assembled in parallel; the resulting video
// keeps source order. The interval comes from the source frame rate via
// [IntervalFromRate]. Decoding errors abort generation and are returned.
func Generate(
	ctx context.Context,
	src source.Source,
	asm *glyph.Assembler,
	target glyph.Dimensions,
	opts ...GenerateOption,
) (*Video, error) {
	gen := &generator{
		logger:      slog.Default(),
		concurrency: runtime.GOMAXPROCS(0),
		layout:      glyph.Fill,
	}
	for _, opt := range opts {
		opt(gen)
	}

	info := src.Info()

	interval, err := IntervalFromRate(info.FrameRate)
	if err != nil {
		return nil, err
	}

	gen.logger.DebugContext(ctx, "generating glyph video",
		slog.Float64("fps", info.FrameRate),
		slog.Int("frames", info.FrameCount),
		slog.Int("columns", target.Columns),
		slog.Int("rows", target.Rows),
		slog.Duration("interval", interval),
	)

	var (
		mu     sync.Mutex
		frames []glyph.Frame
		done   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(gen.concurrency)

	var readErr error

	for i := 0; ; i++ {
		img, err := src.Next(gctx)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			readErr = fmt.Errorf("decode frame %d: %w", i, err)

			break
		}

		mu.Lock()
		frames = append(frames, "")
		mu.Unlock()

		g.Go(func() error {
			f := asm.Assemble(img, target, gen.layout)

			mu.Lock()
			defer mu.Unlock()

			frames[i] = f
			done++

			if gen.progress != nil {
				gen.progress(done, info.FrameCount)
			}

			return nil
		})
	}

	err = g.Wait()
	if readErr != nil {
		return nil, readErr
	}

	if err != nil {
		return nil, err
	}

	gen.logger.DebugContext(ctx, "generated glyph video", slog.Int("frames", len(frames)))

	return &Video{
		Frames:   frames,
		Interval: interval,
		Size:     target,
		Alphabet: asm.Alphabet().String(),
	}, nil
}
