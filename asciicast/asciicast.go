// Package asciicast records glyph videos as asciinema v2 recordings.
//
// A recording is a JSON header line followed by one output event per frame.
// Events replay the same bytes the playback engine writes, so a recording
// looks like an in-place terminal playback.
package asciicast

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.jacobcolvin.com/glyphvid/playback"
	"go.jacobcolvin.com/glyphvid/video"
)

// Version is the asciicast format version written by [Encode].
const Version = 2

// ErrEmptyVideo indicates a video with no frames.
var ErrEmptyVideo = errors.New("video has no frames")

// Header holds the recording properties chosen by the caller. Zero values
// are derived from the video.
type Header struct {
	Timestamp time.Time
	Env       map[string]string
	Title     string
	Width     int
	Height    int
}

type header struct {
	Env       map[string]string `json:"env,omitempty"`
	Title     string            `json:"title,omitempty"`
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Duration  float64           `json:"duration,omitempty"`
}

// Encode writes v to w as an asciicast v2 recording.
//
// The terminal width defaults to the video's column count, or to the first
// frame's width when the video has no recorded size. The height defaults to
// the number of rows a frame occupies at that width. Frame i is emitted at
// i * v.Interval seconds.
func Encode(w io.Writer, v *video.Video, h Header) error {
	if v.Len() == 0 {
		return ErrEmptyVideo
	}

	first := v.Frames[0]

	width := h.Width
	if width <= 0 {
		width = v.Size.Columns
	}

	if width <= 0 {
		width = max(first.Cells(), 1)
	}

	rows := playback.Rows(first, width)

	height := h.Height
	if height <= 0 {
		height = rows
	}

	up := rows
	if first.Lines() > 0 {
		up++
	}

	hdr := header{
		Version:  Version,
		Width:    width,
		Height:   height,
		Title:    h.Title,
		Env:      h.Env,
		Duration: seconds(time.Duration(v.Len()) * v.Interval),
	}
	if !h.Timestamp.IsZero() {
		hdr.Timestamp = h.Timestamp.Unix()
	}

	bw := bufio.NewWriter(w)

	headerJSON, err := json.Marshal(hdr)
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	_, err = fmt.Fprintf(bw, "%s\n", headerJSON)
	if err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	reposition := playback.Reposition(up)

	for i, f := range v.Frames {
		data := f.String()
		if i > 0 {
			data = reposition + data
		}

		eventData, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal frame %d: %w", i, err)
		}

		_, err = fmt.Fprintf(bw, "[%.6f, \"o\", %s]\n", seconds(time.Duration(i)*v.Interval), eventData)
		if err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}

	err = bw.Flush()
	if err != nil {
		return fmt.Errorf("write recording: %w", err)
	}

	return nil
}

func seconds(d time.Duration) float64 {
	return float64(d) / float64(time.Second)
}
