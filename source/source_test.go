package source_test

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphvid/source"
)

func grayFrame(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}

	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func drain(t *testing.T, src source.Source) []*image.Gray {
	t.Helper()

	var frames []*image.Gray

	for {
		img, err := src.Next(t.Context())
		if err == io.EOF {
			return frames
		}

		require.NoError(t, err)

		frames = append(frames, img)
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()

	src := source.NewMemory(30, grayFrame(4, 3, 0), grayFrame(4, 3, 255))

	assert.Equal(t, source.Info{FrameRate: 30, FrameCount: 2, Width: 4, Height: 3}, src.Info())

	frames := drain(t, src)
	require.Len(t, frames, 2)
	assert.Equal(t, uint8(0), frames[0].Pix[0])
	assert.Equal(t, uint8(255), frames[1].Pix[0])

	_, err := src.Next(t.Context())
	assert.Equal(t, io.EOF, err)
	require.NoError(t, src.Close())
}

func TestPNGDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Written out of order; frames must come back sorted by name.
	writePNG(t, filepath.Join(dir, "frame_00002.png"), grayFrame(5, 2, 200))
	writePNG(t, filepath.Join(dir, "frame_00001.png"), grayFrame(5, 2, 10))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	src, err := source.OpenPNGDir(dir, 12)
	require.NoError(t, err)

	assert.Equal(t, source.Info{FrameRate: 12, FrameCount: 2, Width: 5, Height: 2}, src.Info())

	frames := drain(t, src)
	require.Len(t, frames, 2)
	assert.Equal(t, uint8(10), frames[0].Pix[0])
	assert.Equal(t, uint8(200), frames[1].Pix[0])
}

func TestPNGDirEmpty(t *testing.T) {
	t.Parallel()

	_, err := source.OpenPNGDir(t.TempDir(), 24)
	require.ErrorIs(t, err, source.ErrNoFrames)
}

func TestGIF(t *testing.T) {
	t.Parallel()

	palette := color.Palette{color.Black, color.White}

	black := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)
	white := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)

	for i := range white.Pix {
		white.Pix[i] = 1
	}

	path := filepath.Join(t.TempDir(), "clip.gif")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, &gif.GIF{
		Image: []*image.Paletted{black, white},
		Delay: []int{5, 5},
	}))
	require.NoError(t, f.Close())

	src, err := source.OpenGIF(path)
	require.NoError(t, err)

	info := src.Info()
	assert.InDelta(t, 20.0, info.FrameRate, 1e-9)
	assert.Equal(t, 2, info.FrameCount)

	frames := drain(t, src)
	require.Len(t, frames, 2)
	assert.Equal(t, uint8(0), frames[0].Pix[0])
	assert.Equal(t, uint8(255), frames[1].Pix[0])
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), grayFrame(2, 2, 0))

	video := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(video, []byte("not a video"), 0o600))

	t.Run("directory uses png frames", func(t *testing.T) {
		t.Parallel()

		src, err := source.Open(t.Context(), dir, source.Options{})
		require.NoError(t, err)

		assert.IsType(t, &source.PNGDir{}, src)
		assert.InDelta(t, source.DefaultFrameRate, src.Info().FrameRate, 1e-9)
	})

	t.Run("directory frame rate override", func(t *testing.T) {
		t.Parallel()

		src, err := source.Open(t.Context(), dir, source.Options{FrameRate: 8})
		require.NoError(t, err)
		assert.InDelta(t, 8.0, src.Info().FrameRate, 1e-9)
	})

	t.Run("gif frame rate override", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "clip.gif")
		f, err := os.Create(path)
		require.NoError(t, err)

		pal := color.Palette{color.Black, color.White}
		err = gif.EncodeAll(f, &gif.GIF{
			Image: []*image.Paletted{image.NewPaletted(image.Rect(0, 0, 2, 2), pal)},
			Delay: []int{10},
		})
		require.NoError(t, err)
		require.NoError(t, f.Close())

		src, err := source.Open(t.Context(), path, source.Options{FrameRate: 30})
		require.NoError(t, err)
		assert.InDelta(t, 30.0, src.Info().FrameRate, 1e-9)
		assert.Len(t, drain(t, src), 1)
		require.NoError(t, src.Close())
	})

	t.Run("unknown decoder", func(t *testing.T) {
		t.Parallel()

		_, err := source.Open(t.Context(), video, source.Options{Decoder: "opencv"})
		require.ErrorIs(t, err, source.ErrUnknownDecoder)
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := source.Open(t.Context(), filepath.Join(dir, "nope.mp4"), source.Options{})
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestWithFrameRate(t *testing.T) {
	t.Parallel()

	src := source.WithFrameRate(source.NewMemory(10, grayFrame(1, 1, 0), grayFrame(1, 1, 9)), 50)

	info := src.Info()
	assert.InDelta(t, 50.0, info.FrameRate, 1e-9)
	assert.Equal(t, 2, info.FrameCount)
	assert.Len(t, drain(t, src), 2)
}
