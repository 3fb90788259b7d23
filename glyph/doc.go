// Package glyph turns grayscale pixel matrices into fixed-width text frames.
//
// An [Alphabet] maps a luminance sample (0-255) onto one of its glyphs by
// bucketing the sample range evenly across the alphabet:
//
//	a, _ := glyph.NewAlphabet("#. ")
//	a.Map(0)   // '#'
//	a.Map(128) // '.'
//	a.Map(255) // ' '
//
// An [Assembler] applies an [Alphabet] to a whole [*image.Gray], optionally
// resampling it down to a target terminal size first. The [Layout] controls
// whether rows are right-padded to the target width ([Fill]) and whether each
// row ends in a newline ([Wrap]).
//
//	asm := glyph.NewAssembler(glyph.DefaultAlphabet())
//	frame := asm.Assemble(img, glyph.Dimensions{Columns: 80, Rows: 24}, glyph.Fill)
//
// Frames assembled with [Fill] and without [Wrap] form a rectangular block that
// the terminal wraps at the target width, which is how glyph videos are stored
// and replayed.
package glyph
