//go:build !unix

package keyboard

import (
	"context"
	"fmt"
	"runtime"
)

// DefaultBackend is the backend used when none is chosen.
const DefaultBackend = BackendCancel

func readPoll(context.Context, int) (byte, error) {
	return 0, fmt.Errorf("%w: %s is not available on %s", ErrUnknownBackend, BackendPoll, runtime.GOOS)
}
