package log_test

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/glyphvid/log"
)

func TestTail(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		writes   []string
		want     []string
		wantLast string
		max      int
	}{
		"empty": {
			max:  4,
			want: []string{},
		},
		"single line": {
			max:      4,
			writes:   []string{"one\n"},
			want:     []string{"one"},
			wantLast: "one",
		},
		"partial line held back": {
			max:      4,
			writes:   []string{"one\ntw"},
			want:     []string{"one"},
			wantLast: "one",
		},
		"line split across writes": {
			max:      4,
			writes:   []string{"o", "n", "e\ntwo\n"},
			want:     []string{"one", "two"},
			wantLast: "two",
		},
		"oldest dropped": {
			max:      2,
			writes:   []string{"a\nb\nc\n", "d\n"},
			want:     []string{"c", "d"},
			wantLast: "d",
		},
		"crlf trimmed": {
			max:      4,
			writes:   []string{"one\r\n"},
			want:     []string{"one"},
			wantLast: "one",
		},
		"default size": {
			max:      0,
			writes:   []string{"x\n"},
			want:     []string{"x"},
			wantLast: "x",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tail := log.NewTail(tc.max)

			for _, w := range tc.writes {
				n, err := tail.Write([]byte(w))
				require.NoError(t, err)
				assert.Equal(t, len(w), n)
			}

			assert.Equal(t, tc.want, tail.Lines())
			assert.Equal(t, tc.wantLast, tail.Last())
		})
	}
}

func TestTailAsLogSink(t *testing.T) {
	t.Parallel()

	tail := log.NewTail(8)
	logger := slog.New(log.NewHandler(tail, log.LevelInfo, log.FormatLogfmt))

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Go(func() {
			logger.Info("frame", slog.Int("n", i))
		})
	}

	wg.Wait()

	lines := tail.Lines()
	require.Len(t, lines, 8)

	for _, line := range lines {
		assert.Contains(t, line, "msg=frame")
	}

	logger.Info("done")
	assert.Contains(t, tail.Last(), "msg=done")
	assert.NotContains(t, tail.Last(), fmt.Sprintf("n=%d", 0))
}
