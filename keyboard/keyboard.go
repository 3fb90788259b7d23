package keyboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// ErrUnknownBackend indicates a backend name that is not supported.
var ErrUnknownBackend = errors.New("unknown keyboard backend")

// Backend selects how a [Terminal] waits for input.
type Backend string

const (
	// BackendPoll polls the file descriptor with a short timeout and checks
	// the context between polls. Unix only.
	BackendPoll Backend = "poll"
	// BackendCancel blocks in read and is woken by cancelling the reader.
	BackendCancel Backend = "cancel"
)

// Backends returns the backend names accepted by [ParseBackend].
func Backends() []string {
	return []string{string(BackendPoll), string(BackendCancel)}
}

// ParseBackend parses a backend name. An empty name selects
// [DefaultBackend].
func ParseBackend(s string) (Backend, error) {
	if s == "" {
		return DefaultBackend, nil
	}

	if !slices.Contains(Backends(), s) {
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}

	return Backend(s), nil
}

// Reader reads one keystroke.
type Reader interface {
	// ReadKey blocks until a byte is read, the input ends ([io.EOF]), or ctx
	// is done (ctx.Err()).
	ReadKey(ctx context.Context) (byte, error)
}

// Terminal is a [Reader] over a file, typically [os.Stdin].
type Terminal struct {
	file    *os.File
	backend Backend
}

// NewTerminal creates a [Terminal] reading from f with the given backend.
// An empty backend selects [DefaultBackend].
func NewTerminal(f *os.File, backend Backend) (*Terminal, error) {
	b, err := ParseBackend(string(backend))
	if err != nil {
		return nil, err
	}

	return &Terminal{file: f, backend: b}, nil
}

// Backend returns the backend in use.
func (t *Terminal) Backend() Backend {
	return t.backend
}

// ReadKey reads one byte. When the file is a terminal it is switched to raw
// mode first, so the key is delivered without waiting for a newline, and
// restored before returning.
func (t *Terminal) ReadKey(ctx context.Context) (byte, error) {
	err := ctx.Err()
	if err != nil {
		return 0, err
	}

	fd := int(t.file.Fd()) //nolint:gosec // File descriptors fit in int.
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return 0, fmt.Errorf("enter raw mode: %w", err)
		}

		defer func() {
			//nolint:errcheck // Best effort; nothing useful to do on failure.
			term.Restore(fd, state)
		}()
	}

	switch t.backend {
	case BackendPoll:
		return readPoll(ctx, fd)
	case BackendCancel:
		return readCancel(ctx, t.file)
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, t.backend)
}

func readCancel(ctx context.Context, f *os.File) (byte, error) {
	cr, err := cancelreader.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("create cancel reader: %w", err)
	}

	defer func() {
		//nolint:errcheck // Closes the reader's own resources, not f.
		cr.Close()
	}()

	stop := context.AfterFunc(ctx, func() { cr.Cancel() })
	defer stop()

	var buf [1]byte

	for {
		n, err := cr.Read(buf[:])
		if n == 1 {
			return buf[0], nil
		}

		switch {
		case errors.Is(err, cancelreader.ErrCanceled):
			return 0, ctx.Err()
		case errors.Is(err, io.EOF):
			return 0, io.EOF
		case err != nil:
			return 0, fmt.Errorf("read key: %w", err)
		}
	}
}
