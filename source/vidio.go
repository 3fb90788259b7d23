package source

import (
	"context"
	"fmt"
	"image"
	"io"

	vidio "github.com/AlexEidt/Vidio"
)

// Vidio is a [Source] backed by github.com/AlexEidt/Vidio, which decodes
// through an ffmpeg subprocess and reports the container's frame rate and
// frame count.
type Vidio struct {
	video *vidio.Video
	info  Info
}

// OpenVidio opens the video file at path.
func OpenVidio(path string) (*Vidio, error) {
	v, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: vidio: %w", ErrDecoderMissing, err)
	}

	return &Vidio{
		video: v,
		info: Info{
			FrameRate:  v.FPS(),
			FrameCount: v.Frames(),
			Width:      v.Width(),
			Height:     v.Height(),
		},
	}, nil
}

// Info returns the stream description.
func (v *Vidio) Info() Info {
	return v.info
}

// Next decodes the next frame, or returns [io.EOF] when the stream ends.
func (v *Vidio) Next(ctx context.Context) (*image.Gray, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	if !v.video.Read() {
		return nil, io.EOF
	}

	return grayFromPacked(v.video.FrameBuffer(), v.info.Width, v.info.Height)
}

// Close stops the decoder.
func (v *Vidio) Close() error {
	v.video.Close()

	return nil
}

// grayFromPacked converts a packed RGB or RGBA buffer into an [*image.Gray].
func grayFromPacked(buf []byte, w, h int) (*image.Gray, error) {
	n := w * h
	if n == 0 || len(buf) < n*3 {
		return nil, fmt.Errorf("frame buffer holds %d bytes for %dx%d pixels", len(buf), w, h)
	}

	depth := len(buf) / n
	img := image.NewGray(image.Rect(0, 0, w, h))

	for i := range n {
		px := buf[i*depth:]
		img.Pix[i] = luma(px[0], px[1], px[2])
	}

	return img, nil
}
