package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/draw"
)

// Sentinel errors returned by sources.
var (
	ErrNoFrames       = errors.New("no frames")
	ErrDecoderMissing = errors.New("decoder not available")
	ErrUnknownDecoder = errors.New("unknown decoder")
)

// Decoder names accepted by [Options].
const (
	DecoderVidio  = "vidio"
	DecoderFFmpeg = "ffmpeg"
)

// DefaultFrameRate is used for sources that carry no timing, such as a
// directory of PNG frames.
const DefaultFrameRate = 24.0

// Info describes a video stream.
type Info struct {
	// FrameRate is in frames per second.
	FrameRate float64
	// FrameCount is the number of frames, or 0 when unknown.
	FrameCount int
	Width      int
	Height     int
}

// Source produces grayscale frames in presentation order.
type Source interface {
	// Info returns the stream description.
	Info() Info
	// Next returns the next frame, or [io.EOF] after the last one.
	Next(ctx context.Context) (*image.Gray, error)
	// Close releases the decoder.
	Close() error
}

// Options selects and configures a backend in [Open].
type Options struct {
	// Decoder is used for video files; one of [Decoders]. Empty means
	// [DecoderVidio].
	Decoder string
	// FrameRate overrides the rate reported by the source. PNG directories
	// carry no timing and use [DefaultFrameRate] when it is zero.
	FrameRate float64
}

// Decoders returns the accepted decoder names.
func Decoders() []string {
	return []string{DecoderVidio, DecoderFFmpeg}
}

// Open opens path with the backend that fits it: directories are read as PNG
// frames, ".gif" files are decoded as GIF, and anything else goes to the
// video decoder named in opts.
func Open(ctx context.Context, path string, opts Options) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	if info.IsDir() {
		rate := opts.FrameRate
		if rate <= 0 {
			rate = DefaultFrameRate
		}

		return OpenPNGDir(path, rate)
	}

	var src Source

	switch {
	case strings.EqualFold(filepath.Ext(path), ".gif"):
		src, err = OpenGIF(path)
	case opts.Decoder == "" || strings.EqualFold(opts.Decoder, DecoderVidio):
		src, err = OpenVidio(path)
	case strings.EqualFold(opts.Decoder, DecoderFFmpeg):
		src, err = OpenFFmpeg(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q, one of: %s", ErrUnknownDecoder, opts.Decoder,
			strings.Join(Decoders(), ", "))
	}

	if err != nil {
		return nil, err
	}

	if opts.FrameRate > 0 {
		return WithFrameRate(src, opts.FrameRate), nil
	}

	return src, nil
}

type rateOverride struct {
	Source
	rate float64
}

func (r rateOverride) Info() Info {
	info := r.Source.Info()
	info.FrameRate = r.rate

	return info
}

// WithFrameRate returns src reporting rate frames per second instead of its
// own rate.
func WithFrameRate(src Source, rate float64) Source {
	return rateOverride{Source: src, rate: rate}
}

// toGray converts img to an [*image.Gray] anchored at the origin.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	return dst
}

// luma converts 8-bit RGB to luminance with the same weights as
// [image/color.GrayModel].
func luma(r, g, b uint8) uint8 {
	y := (19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16

	return uint8(y)
}

// sortedFiles returns the names in dir with the given extension, sorted.
func sortedFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	return names, nil
}
