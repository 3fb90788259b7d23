package video

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"go.jacobcolvin.com/glyphvid/glyph"
)

// DefaultInterval is the frame interval of a loaded video whose interval is
// not known.
const DefaultInterval = 33 * time.Millisecond

// Sentinel errors returned by video operations.
var (
	ErrInvalidFrameRate = errors.New("invalid frame rate")
	ErrMultilineFrame   = errors.New("frame contains a line break")
)

// Video is an ordered sequence of glyph frames played at a fixed interval.
type Video struct {
	// Frames in playback order.
	Frames []glyph.Frame
	// Interval is how long each frame stays on screen.
	Interval time.Duration
	// Size is the target size the frames were generated for. It is zero for
	// videos loaded without metadata.
	Size glyph.Dimensions
	// Alphabet holds the glyphs the frames were drawn with, when known.
	Alphabet string
}

// Len returns the number of frames.
func (v *Video) Len() int {
	return len(v.Frames)
}

// IntervalFromRate converts a frame rate into a frame interval rounded to the
// millisecond, so 30 frames per second gives 33ms. Rates high enough to round
// to zero are clamped to 1ms.
func IntervalFromRate(fps float64) (time.Duration, error) {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFrameRate, fps)
	}

	ms := math.Round(1000 / fps)

	return time.Duration(max(ms, 1)) * time.Millisecond, nil
}

// Export writes each frame followed by a newline. An empty video writes
// nothing. Frames that contain a newline cannot be read back as one frame, so
// Export rejects them before writing anything.
func (v *Video) Export(w io.Writer) error {
	if v.Len() == 0 {
		return nil
	}

	for i, f := range v.Frames {
		if strings.ContainsRune(string(f), '\n') {
			return fmt.Errorf("%w: frame %d", ErrMultilineFrame, i)
		}
	}

	bw := bufio.NewWriter(w)

	for _, f := range v.Frames {
		_, err := bw.WriteString(string(f))
		if err != nil {
			return fmt.Errorf("write frame: %w", err)
		}

		err = bw.WriteByte('\n')
		if err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}

// Load reads a frame container: every line is one frame, with exactly one
// trailing "\n" or "\r\n" removed. A last line without a terminator is kept
// whole. Row widths are not validated. An interval of zero or less is
// replaced by [DefaultInterval].
func Load(r io.Reader, interval time.Duration) (*Video, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	v := &Video{Interval: interval}
	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			v.Frames = append(v.Frames, glyph.Frame(trimTerminator(line)))
		}

		if errors.Is(err, io.EOF) {
			return v, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read frame %d: %w", len(v.Frames), err)
		}
	}
}

func trimTerminator(line string) string {
	line, ok := strings.CutSuffix(line, "\n")
	if ok {
		line = strings.TrimSuffix(line, "\r")
	}

	return line
}
