package video_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphvid/glyph"
	"go.jacobcolvin.com/glyphvid/video"
)

func sampleVideo() *video.Video {
	return &video.Video{
		Frames:   []glyph.Frame{"##  ##  ", "..  ..  ", "        "},
		Interval: 42 * time.Millisecond,
		Size:     glyph.Dimensions{Columns: 4, Rows: 2},
		Alphabet: glyph.DefaultAlphabet().String(),
	}
}

func TestIsContainer(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path string
		want bool
	}{
		"plain":       {path: "clip.txt", want: true},
		"upper case":  {path: "CLIP.TXT", want: true},
		"gzip":        {path: "dir/clip.txt.gz", want: true},
		"zstd":        {path: "clip.txt.zst", want: true},
		"video":       {path: "clip.mp4", want: false},
		"bare gz":     {path: "clip.gz", want: false},
		"txt in name": {path: "clip.txt.mp4", want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, video.IsContainer(tc.path))
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	for _, ext := range video.ContainerExtensions() {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "clip"+ext)
			orig := sampleVideo()

			require.NoError(t, orig.ExportFile(path))
			assert.FileExists(t, video.MetadataPath(path))

			loaded, err := video.LoadFile(path, 0)
			require.NoError(t, err)

			assert.Equal(t, orig.Frames, loaded.Frames)
			assert.Equal(t, orig.Interval, loaded.Interval)
			assert.Equal(t, orig.Size, loaded.Size)
			assert.Equal(t, orig.Alphabet, loaded.Alphabet)
		})
	}
}

func TestLoadFileInterval(t *testing.T) {
	t.Parallel()

	t.Run("explicit interval wins over sidecar", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "clip.txt")
		require.NoError(t, sampleVideo().ExportFile(path))

		loaded, err := video.LoadFile(path, 100*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 100*time.Millisecond, loaded.Interval)
	})

	t.Run("no sidecar uses default", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "clip.txt")
		require.NoError(t, os.WriteFile(path, []byte("##\n..\n"), 0o600))

		loaded, err := video.LoadFile(path, 0)
		require.NoError(t, err)
		assert.Equal(t, video.DefaultInterval, loaded.Interval)
		assert.Equal(t, []glyph.Frame{"##", ".."}, loaded.Frames)
		assert.True(t, loaded.Size.IsZero())
	})

	t.Run("sidecar without interval uses default", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "clip.txt")
		require.NoError(t, os.WriteFile(path, []byte("##\n"), 0o600))
		require.NoError(t, video.WriteMetadata(path, video.Metadata{Frames: 1, Columns: 2, Rows: 1}))

		loaded, err := video.LoadFile(path, 0)
		require.NoError(t, err)
		assert.Equal(t, video.DefaultInterval, loaded.Interval)
		assert.Equal(t, glyph.Dimensions{Columns: 2, Rows: 1}, loaded.Size)
	})

	t.Run("malformed sidecar", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "clip.txt")
		require.NoError(t, os.WriteFile(path, []byte("##\n"), 0o600))
		require.NoError(t, os.WriteFile(video.MetadataPath(path), []byte("interval_ms: [1, 2"), 0o600))

		_, err := video.LoadFile(path, 0)
		require.Error(t, err)
	})
}

func TestFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := sampleVideo().ExportFile(filepath.Join(dir, "clip.mp4"))
	require.ErrorIs(t, err, video.ErrUnknownContainer)

	_, err = video.LoadFile(filepath.Join(dir, "clip.bin"), 0)
	require.ErrorIs(t, err, video.ErrUnknownContainer)

	_, err = video.LoadFile(filepath.Join(dir, "missing.txt"), 0)
	require.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, (&video.Video{}).ExportFile(empty))
	assert.NoFileExists(t, empty)
}
