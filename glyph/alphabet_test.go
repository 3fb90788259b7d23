package glyph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphvid/glyph"
)

func TestAlphabetMap(t *testing.T) {
	t.Parallel()

	a, err := glyph.NewAlphabet("#. ")
	require.NoError(t, err)

	tcs := map[string]struct {
		want rune
		v    uint8
	}{
		"black":          {v: 0, want: '#'},
		"below midpoint": {v: 85, want: '#'},
		"first of mid":   {v: 86, want: '.'},
		"midpoint":       {v: 128, want: '.'},
		"last of mid":    {v: 170, want: '.'},
		"first of top":   {v: 171, want: ' '},
		"white":          {v: 255, want: ' '},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, a.Map(tc.v))
		})
	}
}

func TestAlphabetIndexBounds(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		glyphs string
	}{
		"single glyph":     {glyphs: "#"},
		"three glyphs":     {glyphs: "#. "},
		"default":          {glyphs: glyph.DefaultAlphabet().String()},
		"more than values": {glyphs: alphabetOf(300)},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := glyph.NewAlphabet(tc.glyphs)
			require.NoError(t, err)

			prev := 0
			for v := range 256 {
				idx := a.Index(uint8(v))
				assert.GreaterOrEqual(t, idx, 0)
				assert.Less(t, idx, a.Len())
				assert.GreaterOrEqual(t, idx, prev, "index must not decrease at %d", v)

				prev = idx
			}

			assert.Equal(t, 0, a.Index(0))
		})
	}
}

func TestDefaultAlphabet(t *testing.T) {
	t.Parallel()

	a := glyph.DefaultAlphabet()
	assert.Equal(t, 70, a.Len())
	assert.Equal(t, '$', a.Map(0))
	assert.Equal(t, ' ', a.Map(255))

	_, err := glyph.NewAlphabet(a.String())
	require.NoError(t, err)
}

func TestNewAlphabetErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		glyphs string
	}{
		"empty":      {glyphs: ""},
		"duplicate":  {glyphs: "#.#"},
		"wide glyph": {glyphs: "#世 "},
		"zero width": {glyphs: "#\u0301 "},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := glyph.NewAlphabet(tc.glyphs)
			require.ErrorIs(t, err, glyph.ErrInvalidAlphabet)
		})
	}
}

// alphabetOf returns n distinct single-cell glyphs.
func alphabetOf(n int) string {
	var sb strings.Builder
	for i := range n {
		sb.WriteRune(rune(0x100 + i))
	}

	return sb.String()
}
