package asciicast_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphvid/asciicast"
	"go.jacobcolvin.com/glyphvid/glyph"
	"go.jacobcolvin.com/glyphvid/stringtest"
	"go.jacobcolvin.com/glyphvid/video"
)

type castHeader struct {
	Env       map[string]string `json:"env"`
	Title     string            `json:"title"`
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp"`
	Duration  float64           `json:"duration"`
}

func decode(t *testing.T, data string) (castHeader, [][]any) {
	t.Helper()

	lines := strings.Split(strings.TrimSuffix(data, "\n"), "\n")
	require.NotEmpty(t, lines)

	var h castHeader
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &h))

	events := make([][]any, 0, len(lines)-1)

	for _, line := range lines[1:] {
		var ev []any
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		require.Len(t, ev, 3)
		events = append(events, ev)
	}

	return h, events
}

func TestEncode(t *testing.T) {
	t.Parallel()

	v := &video.Video{
		Frames:   []glyph.Frame{"##..", "..##", "    "},
		Interval: 40 * time.Millisecond,
		Size:     glyph.Dimensions{Columns: 2, Rows: 2},
	}

	var buf bytes.Buffer

	err := asciicast.Encode(&buf, v, asciicast.Header{
		Title:     "clip",
		Timestamp: time.Unix(1700000000, 0),
	})
	require.NoError(t, err)

	h, events := decode(t, buf.String())

	assert.Equal(t, asciicast.Version, h.Version)
	assert.Equal(t, 2, h.Width)
	assert.Equal(t, 2, h.Height)
	assert.Equal(t, "clip", h.Title)
	assert.Equal(t, int64(1700000000), h.Timestamp)
	assert.InDelta(t, 0.12, h.Duration, 1e-9)

	require.Len(t, events, 3)

	wantData := []string{"##..", "\x1b[A\r..##", "\x1b[A\r    "}
	for i, ev := range events {
		assert.InDelta(t, float64(i)*0.04, ev[0], 1e-9, "event %d", i)
		assert.Equal(t, "o", ev[1])
		assert.Equal(t, wantData[i], ev[2])
	}
}

func TestEncodeDerivedSize(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		video      *video.Video
		header     asciicast.Header
		wantWidth  int
		wantHeight int
	}{
		"from first frame": {
			video:      &video.Video{Frames: []glyph.Frame{"######"}, Interval: time.Millisecond},
			wantWidth:  6,
			wantHeight: 1,
		},
		"explicit size": {
			video:      &video.Video{Frames: []glyph.Frame{"######"}, Interval: time.Millisecond},
			header:     asciicast.Header{Width: 3, Height: 10},
			wantWidth:  3,
			wantHeight: 10,
		},
		"wrapped frame": {
			video: &video.Video{
				Frames:   []glyph.Frame{glyph.Frame(stringtest.Lines("##", "##", "##"))},
				Interval: time.Millisecond,
			},
			wantWidth:  6,
			wantHeight: 3,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			require.NoError(t, asciicast.Encode(&buf, tc.video, tc.header))

			h, events := decode(t, buf.String())
			assert.Equal(t, tc.wantWidth, h.Width)
			assert.Equal(t, tc.wantHeight, h.Height)
			assert.Len(t, events, tc.video.Len())
		})
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := asciicast.Encode(&buf, &video.Video{}, asciicast.Header{})
	require.ErrorIs(t, err, asciicast.ErrEmptyVideo)
	assert.Zero(t, buf.Len())
}
