package source

import (
	"fmt"
	"image"
	"image/gif"
	"os"

	"golang.org/x/image/draw"
)

// OpenGIF decodes every frame of the animated GIF at path. Frames are
// composited onto the logical screen, so partial frames come out whole. The
// frame rate is derived from the mean frame delay; GIFs without delays play
// at 10 frames per second.
func OpenGIF(path string) (*Memory, error) {
	f, err := os.Open(path) //nolint:gosec // Path is a user-provided CLI argument.
	if err != nil {
		return nil, fmt.Errorf("open gif: %w", err)
	}

	defer func() {
		//nolint:errcheck // Read-only file.
		f.Close()
	}()

	anim, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("decode gif %s: %w", path, err)
	}

	if len(anim.Image) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, path)
	}

	screen := image.Rect(0, 0, anim.Config.Width, anim.Config.Height)
	if screen.Empty() {
		screen = anim.Image[0].Bounds()
	}

	canvas := image.NewRGBA(screen)
	frames := make([]*image.Gray, 0, len(anim.Image))

	var delay int

	for i, frame := range anim.Image {
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, toGray(canvas))

		if i < len(anim.Delay) {
			delay += anim.Delay[i]
		}
	}

	rate := 10.0
	if delay > 0 {
		// Delays are in hundredths of a second.
		rate = 100 * float64(len(frames)) / float64(delay)
	}

	return NewMemory(rate, frames...), nil
}
