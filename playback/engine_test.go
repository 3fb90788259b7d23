package playback_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphvid/glyph"
	"go.jacobcolvin.com/glyphvid/playback"
	"go.jacobcolvin.com/glyphvid/stringtest"
	"go.jacobcolvin.com/glyphvid/video"
)

func terminal(io.Writer) bool { return true }

// firedTimer returns a timer whose channels have already fired.
func firedTimer(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}

	return ch
}

// stallTimer fires immediately for the first n waits, then calls onStall and
// never fires again.
func stallTimer(n int, onStall func()) func(time.Duration) <-chan time.Time {
	var calls int

	return func(d time.Duration) <-chan time.Time {
		calls++
		if calls <= n {
			return firedTimer(d)
		}

		if calls == n+1 {
			onStall()
		}

		return nil
	}
}

// keyOnSignal returns a key once its channel is closed.
type keyOnSignal struct {
	signal chan struct{}
	once   sync.Once
}

func newKeyOnSignal() *keyOnSignal {
	return &keyOnSignal{signal: make(chan struct{})}
}

func (k *keyOnSignal) press() {
	k.once.Do(func() { close(k.signal) })
}

func (k *keyOnSignal) ReadKey(ctx context.Context) (byte, error) {
	select {
	case <-k.signal:
		return 'q', nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func letterVideo(n int, width int) *video.Video {
	frames := make([]glyph.Frame, n)
	for i := range frames {
		frames[i] = glyph.Frame(strings.Repeat(string(rune('a'+i)), width))
	}

	return &video.Video{Frames: frames, Interval: time.Millisecond}
}

func TestPlayCompleted(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	e := playback.New(&out,
		playback.WithTerminalCheck(terminal),
		playback.WithColumns(2),
		playback.WithTimer(firedTimer),
	)

	res, err := e.Play(t.Context(), letterVideo(3, 4))
	require.NoError(t, err)
	assert.Equal(t, playback.Result{State: playback.StateCompleted, Rendered: 3}, res)

	want := "aaaa\x1b[A\r" +
		"bbbb\x1b[A\r" +
		"cccc\x1b[A\r" +
		"\x1b[B\x1b[K\x1b[A\r\x1b[K" +
		"Finished!\n"
	assert.Equal(t, want, out.String())
}

func TestPlaySingleRow(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	e := playback.New(&out,
		playback.WithTerminalCheck(terminal),
		playback.WithColumns(80),
		playback.WithTimer(firedTimer),
	)

	res, err := e.Play(t.Context(), letterVideo(2, 80))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rendered)

	want := strings.Repeat("a", 80) + "\r" +
		strings.Repeat("b", 80) + "\r" +
		"\x1b[K" +
		playback.StatusFinished
	assert.Equal(t, want, out.String())
}

func TestPlayWrappedFrames(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	e := playback.New(&out,
		playback.WithTerminalCheck(terminal),
		playback.WithColumns(80),
		playback.WithTimer(firedTimer),
	)

	frame := glyph.Frame(stringtest.Lines("##", "..", "  "))

	res, err := e.Play(t.Context(), &video.Video{Frames: []glyph.Frame{frame}})
	require.NoError(t, err)
	assert.Equal(t, playback.StateCompleted, res.State)

	want := frame.String() + "\x1b[3A\r" + playback.Cleanup(3) + playback.StatusFinished
	assert.Equal(t, want, out.String())
}

func TestPlayNoOp(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		video    *video.Video
		terminal func(io.Writer) bool
		want     playback.State
	}{
		"empty video": {
			video:    &video.Video{},
			terminal: terminal,
			want:     playback.StateCompleted,
		},
		"not a terminal": {
			video:    letterVideo(2, 4),
			terminal: func(io.Writer) bool { return false },
			want:     playback.StateIdle,
		},
		"default check on buffer": {
			video: letterVideo(2, 4),
			want:  playback.StateIdle,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			opts := []playback.Option{playback.WithTimer(firedTimer)}
			if tc.terminal != nil {
				opts = append(opts, playback.WithTerminalCheck(tc.terminal))
			}

			res, err := playback.New(&out, opts...).Play(t.Context(), tc.video)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.State)
			assert.Zero(t, res.Rendered)
			assert.Zero(t, out.Len())
		})
	}
}

func TestPlayInterrupted(t *testing.T) {
	t.Parallel()

	for _, k := range []int{1, 2, 4} {
		t.Run(string(rune('0'+k)), func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			key := newKeyOnSignal()
			e := playback.New(&out,
				playback.WithTerminalCheck(terminal),
				playback.WithColumns(4),
				playback.WithKeyboard(key),
				playback.WithTimer(stallTimer(k-1, key.press)),
			)

			res, err := e.Play(t.Context(), letterVideo(5, 4))
			require.NoError(t, err)
			assert.Equal(t, playback.Result{State: playback.StateInterrupted, Rendered: k}, res)

			got := out.String()
			for i := range 5 {
				frame := strings.Repeat(string(rune('a'+i)), 4)
				assert.Equal(t, i < k, strings.Contains(got, frame), "frame %d", i)
			}

			assert.True(t, strings.HasSuffix(got, playback.StatusInterrupted))
		})
	}
}

func TestPlayInterruptedDuringLastFrame(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	key := newKeyOnSignal()
	e := playback.New(&out,
		playback.WithTerminalCheck(terminal),
		playback.WithColumns(4),
		playback.WithKeyboard(key),
		playback.WithTimer(stallTimer(1, key.press)),
	)

	res, err := e.Play(t.Context(), letterVideo(2, 4))
	require.NoError(t, err)
	assert.Equal(t, playback.Result{State: playback.StateInterrupted, Rendered: 2}, res)
	assert.True(t, strings.HasSuffix(out.String(), playback.StatusInterrupted))
}

func TestPlayContextCancelled(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	e := playback.New(&out,
		playback.WithTerminalCheck(terminal),
		playback.WithColumns(4),
		playback.WithTimer(stallTimer(2, cancel)),
	)

	res, err := e.Play(ctx, letterVideo(5, 4))
	require.NoError(t, err)
	assert.Equal(t, playback.Result{State: playback.StateInterrupted, Rendered: 3}, res)
	assert.True(t, strings.HasSuffix(out.String(), playback.StatusInterrupted))
}

// rawReader reports whether a ReadKey call is in progress, the way a
// terminal reader holds raw mode while it waits.
type rawReader struct {
	entered chan struct{}
	once    sync.Once
	raw     atomic.Bool
}

func (r *rawReader) ReadKey(ctx context.Context) (byte, error) {
	r.raw.Store(true)
	defer r.raw.Store(false)

	r.once.Do(func() { close(r.entered) })
	<-ctx.Done()

	return 0, ctx.Err()
}

// statusRecorder records the reader's raw state when the status line arrives.
type statusRecorder struct {
	reader *rawReader
	rawAt  []bool
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte(playback.StatusFinished)) {
		w.rawAt = append(w.rawAt, w.reader.raw.Load())
	}

	return len(p), nil
}

func TestPlayReleasesKeyboardBeforeStatus(t *testing.T) {
	t.Parallel()

	reader := &rawReader{entered: make(chan struct{})}
	out := &statusRecorder{reader: reader}

	e := playback.New(out,
		playback.WithTerminalCheck(terminal),
		playback.WithColumns(4),
		playback.WithKeyboard(reader),
		playback.WithTimer(func(d time.Duration) <-chan time.Time {
			<-reader.entered

			return firedTimer(d)
		}),
	)

	res, err := e.Play(t.Context(), letterVideo(2, 4))
	require.NoError(t, err)
	assert.Equal(t, playback.StateCompleted, res.State)
	assert.Equal(t, []bool{false}, out.rawAt)
}

type failingWriter struct {
	err   error
	after int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, w.err
	}

	w.after--

	return len(p), nil
}

func TestPlayWriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	e := playback.New(&failingWriter{err: boom, after: 1},
		playback.WithTerminalCheck(terminal),
		playback.WithColumns(4),
		playback.WithTimer(firedTimer),
	)

	res, err := e.Play(t.Context(), letterVideo(3, 4))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, res.Rendered)
}

func TestRows(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		frame   glyph.Frame
		columns int
		want    int
	}{
		"exact rows":      {frame: glyph.Frame(stringtest.Block('#', 3, 10)), columns: 10, want: 3},
		"partial row":     {frame: "#####", columns: 10, want: 1},
		"truncates":       {frame: glyph.Frame(strings.Repeat("#", 25)), columns: 10, want: 2},
		"no columns":      {frame: "####", columns: 0, want: 1},
		"wrapped lines":   {frame: glyph.Frame(stringtest.Lines("##", "##")), columns: 1, want: 2},
		"wide characters": {frame: "日本日本", columns: 4, want: 2},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, playback.Rows(tc.frame, tc.columns))
		})
	}
}
