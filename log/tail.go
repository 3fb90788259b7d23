package log

import (
	"bytes"
	"strings"
	"sync"
)

const defaultTailLines = 16

// Tail is an [io.Writer] that keeps the last complete lines written to it.
//
// It lets a terminal display show recent log output without owning the log
// stream. Safe for concurrent use.
//
// Create instances with [NewTail].
type Tail struct {
	lines   []string
	partial []byte
	max     int
	mu      sync.Mutex
}

// NewTail creates a [Tail] holding at most n lines. Values less than 1 use
// the default of 16.
func NewTail(n int) *Tail {
	if n < 1 {
		n = defaultTailLines
	}

	return &Tail{max: n}
}

// Write records every complete line in b. A trailing partial line is kept
// until its newline arrives. Write always returns len(b), nil.
func (t *Tail) Write(b []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rest := b

	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}

		line := string(t.partial) + string(rest[:i])
		t.partial = t.partial[:0]
		rest = rest[i+1:]

		t.push(strings.TrimRight(line, "\r"))
	}

	t.partial = append(t.partial, rest...)

	return len(b), nil
}

func (t *Tail) push(line string) {
	if len(t.lines) == t.max {
		copy(t.lines, t.lines[1:])
		t.lines = t.lines[:t.max-1]
	}

	t.lines = append(t.lines, line)
}

// Lines returns a copy of the retained lines, oldest first.
func (t *Tail) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.lines))
	copy(out, t.lines)

	return out
}

// Last returns the most recent complete line, or "" when none was written.
func (t *Tail) Last() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.lines) == 0 {
		return ""
	}

	return t.lines[len(t.lines)-1]
}
