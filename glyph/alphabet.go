package glyph

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"
)

// ErrInvalidAlphabet indicates an alphabet that cannot be used for mapping.
var ErrInvalidAlphabet = errors.New("invalid alphabet")

// defaultGlyphs is ordered from darkest to brightest.
const defaultGlyphs = "$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/|()1{}[]?-_+~<>i!lI;:,^`'. "

// Alphabet is an ordered, immutable set of single-cell glyphs.
//
// Create instances with [NewAlphabet] or [DefaultAlphabet].
type Alphabet struct {
	glyphs []rune
}

// DefaultAlphabet returns the 70-glyph ramp used when no alphabet is
// configured. It runs from darkest ('$') to brightest (' ').
func DefaultAlphabet() Alphabet {
	return Alphabet{glyphs: []rune(defaultGlyphs)}
}

// NewAlphabet creates an [Alphabet] from the runes of glyphs, in order.
// Every glyph must be distinct and occupy exactly one terminal cell.
func NewAlphabet(glyphs string) (Alphabet, error) {
	runes := []rune(glyphs)
	if len(runes) == 0 {
		return Alphabet{}, fmt.Errorf("%w: no glyphs", ErrInvalidAlphabet)
	}

	seen := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		if w := runewidth.RuneWidth(r); w != 1 {
			return Alphabet{}, fmt.Errorf("%w: glyph %q is %d cells wide", ErrInvalidAlphabet, r, w)
		}

		if _, dup := seen[r]; dup {
			return Alphabet{}, fmt.Errorf("%w: duplicate glyph %q", ErrInvalidAlphabet, r)
		}

		seen[r] = struct{}{}
	}

	return Alphabet{glyphs: runes}, nil
}

// Len returns the number of glyphs.
func (a Alphabet) Len() int {
	return len(a.glyphs)
}

// Index returns the glyph index for luminance v, which is
// floor(v / 256 * Len()). The result is always within [0, Len()-1].
func (a Alphabet) Index(v uint8) int {
	return int(v) * len(a.glyphs) / 256
}

// Map returns the glyph for luminance v.
func (a Alphabet) Map(v uint8) rune {
	return a.glyphs[a.Index(v)]
}

// String returns the glyphs in order.
func (a Alphabet) String() string {
	return string(a.glyphs)
}
