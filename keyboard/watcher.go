package keyboard

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Watcher waits for one keystroke in the background.
type Watcher struct {
	pressed chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
	err     error
	once    sync.Once
}

// Watch starts reading one key from r. The read runs until a key arrives,
// ctx is done, or [Watcher.Stop] is called. A nil r yields a watcher that
// never fires.
func Watch(ctx context.Context, r Reader) *Watcher {
	ctx, cancel := context.WithCancel(ctx)

	w := &Watcher{
		pressed: make(chan struct{}),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	if r == nil {
		close(w.done)

		return w
	}

	go func() {
		defer close(w.done)

		_, err := r.ReadKey(ctx)
		if err == nil {
			close(w.pressed)

			return
		}

		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) &&
			!errors.Is(err, io.EOF) {
			w.err = err
		}
	}()

	return w
}

// Pressed returns a channel that is closed once a key has been read.
func (w *Watcher) Pressed() <-chan struct{} {
	return w.pressed
}

// Stop cancels the pending read and waits for it to return. It returns the
// read error, if any; cancellation and end of input are not errors. Stop is
// safe to call more than once.
func (w *Watcher) Stop() error {
	w.once.Do(w.cancel)
	<-w.done

	return w.err
}
