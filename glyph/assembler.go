package glyph

import (
	"image"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/draw"
)

// Dimensions is a terminal size in character cells. The zero value means no
// target size.
type Dimensions struct {
	Columns int
	Rows    int
}

// IsZero reports whether d is unset.
func (d Dimensions) IsZero() bool {
	return d.Columns <= 0 || d.Rows <= 0
}

// Layout controls how assembled rows are laid out in a [Frame].
type Layout uint8

const (
	// Fill right-pads every row with spaces to the target width.
	Fill Layout = 1 << iota
	// Wrap terminates every row with a newline.
	Wrap
)

// Has reports whether all bits of flag are set in l.
func (l Layout) Has(flag Layout) bool {
	return l&flag == flag
}

// Frame is the textual form of one glyph frame.
type Frame string

// String returns the frame text.
func (f Frame) String() string {
	return string(f)
}

// Cells returns the number of terminal cells the frame's glyphs occupy,
// ignoring newlines.
func (f Frame) Cells() int {
	return runewidth.StringWidth(strings.ReplaceAll(string(f), "\n", ""))
}

// Lines returns the number of newline-terminated rows in the frame.
func (f Frame) Lines() int {
	return strings.Count(string(f), "\n")
}

// Assembler builds [Frame] values from grayscale images using an [Alphabet].
//
// An Assembler is safe for concurrent use.
//
// Create instances with [NewAssembler].
type Assembler struct {
	scaler   draw.Scaler
	alphabet Alphabet
}

// Option configures an [Assembler].
type Option func(*Assembler)

// WithScaler sets the resampler used when an image exceeds the target size.
// The default is [draw.BiLinear], which averages over the covered source area
// when shrinking.
func WithScaler(s draw.Scaler) Option {
	return func(a *Assembler) {
		a.scaler = s
	}
}

// NewAssembler creates an [Assembler] for alphabet. A zero alphabet is
// replaced by [DefaultAlphabet].
func NewAssembler(alphabet Alphabet, opts ...Option) *Assembler {
	if alphabet.Len() == 0 {
		alphabet = DefaultAlphabet()
	}

	a := &Assembler{
		alphabet: alphabet,
		scaler:   draw.BiLinear,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Alphabet returns the alphabet used by a.
func (a *Assembler) Alphabet() Alphabet {
	return a.alphabet
}

// Assemble converts pixels into a [Frame].
//
// When target is set and pixels exceeds it in either dimension, pixels is
// resampled to exactly target first. Each pixel then becomes one glyph,
// row-major. A nil or empty image yields an empty frame.
func (a *Assembler) Assemble(pixels *image.Gray, target Dimensions, layout Layout) Frame {
	if pixels == nil || pixels.Bounds().Empty() {
		return ""
	}

	img := a.fit(pixels, target)
	b := img.Bounds()

	var pad int
	if layout.Has(Fill) && !target.IsZero() {
		pad = max(target.Columns-b.Dx(), 0)
	}

	rowLen := b.Dx() + pad
	if layout.Has(Wrap) {
		rowLen++
	}

	var sb strings.Builder

	sb.Grow(rowLen * b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		for _, v := range img.Pix[off : off+b.Dx()] {
			sb.WriteRune(a.alphabet.Map(v))
		}

		for range pad {
			sb.WriteByte(' ')
		}

		if layout.Has(Wrap) {
			sb.WriteByte('\n')
		}
	}

	return Frame(sb.String())
}

// fit resamples img to target when it does not already fit.
func (a *Assembler) fit(img *image.Gray, target Dimensions) *image.Gray {
	if target.IsZero() {
		return img
	}

	b := img.Bounds()
	if b.Dx() <= target.Columns && b.Dy() <= target.Rows {
		return img
	}

	dst := image.NewGray(image.Rect(0, 0, target.Columns, target.Rows))
	a.scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	return dst
}
