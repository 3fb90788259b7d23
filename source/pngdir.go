package source

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// PNGDir is a [Source] over a directory of PNG frames, decoded one at a time
// in filename order.
type PNGDir struct {
	dir   string
	names []string
	info  Info
	next  int
}

// OpenPNGDir opens the PNG frames in dir, played back at rate frames per
// second. The first frame is decoded to learn the frame size.
func OpenPNGDir(dir string, rate float64) (*PNGDir, error) {
	names, err := sortedFiles(dir, ".png")
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no PNG files in %s", ErrNoFrames, dir)
	}

	first, err := decodePNG(filepath.Join(dir, names[0]))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", names[0], err)
	}

	return &PNGDir{
		dir:   dir,
		names: names,
		info: Info{
			FrameRate:  rate,
			FrameCount: len(names),
			Width:      first.Bounds().Dx(),
			Height:     first.Bounds().Dy(),
		},
	}, nil
}

// Info returns the stream description.
func (p *PNGDir) Info() Info {
	return p.info
}

// Next decodes the next frame, or returns [io.EOF] after the last one.
func (p *PNGDir) Next(ctx context.Context) (*image.Gray, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	if p.next >= len(p.names) {
		return nil, io.EOF
	}

	name := p.names[p.next]
	p.next++

	img, err := decodePNG(filepath.Join(p.dir, name))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	return toGray(img), nil
}

// Close is a no-op.
func (p *PNGDir) Close() error {
	return nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // Frame paths come from a user-provided directory.
	if err != nil {
		return nil, err
	}

	defer func() {
		//nolint:errcheck // Read-only file.
		f.Close()
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	return img, nil
}
