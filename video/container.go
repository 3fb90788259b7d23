package video

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrUnknownContainer indicates a path without a container extension.
var ErrUnknownContainer = errors.New("unknown container")

type codec int

const (
	codecPlain codec = iota
	codecGzip
	codecZstd
)

// containerExts maps container extensions to codecs, longest first.
var containerExts = []struct {
	ext   string
	codec codec
}{
	{".txt.zst", codecZstd},
	{".txt.gz", codecGzip},
	{".txt", codecPlain},
}

func codecFor(path string) (codec, bool) {
	lower := strings.ToLower(path)
	for _, e := range containerExts {
		if strings.HasSuffix(lower, e.ext) {
			return e.codec, true
		}
	}

	return 0, false
}

// IsContainer reports whether path names a frame container: ".txt",
// ".txt.gz" or ".txt.zst".
func IsContainer(path string) bool {
	_, ok := codecFor(path)

	return ok
}

// ContainerExtensions returns the recognized container extensions.
func ContainerExtensions() []string {
	exts := make([]string, 0, len(containerExts))
	for _, e := range containerExts {
		exts = append(exts, e.ext)
	}

	return exts
}

// CreateContainer creates the container file at path, compressing according
// to its extension. Closing the returned writer flushes the codec and closes
// the file.
func CreateContainer(path string) (io.WriteCloser, error) {
	c, ok := codecFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContainer, path)
	}

	f, err := os.Create(path) //nolint:gosec // Output path is a user-provided CLI argument.
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}

	switch c {
	case codecGzip:
		return &stackedWriter{WriteCloser: gzip.NewWriter(f), file: f}, nil

	case codecZstd:
		enc, err := zstd.NewWriter(f)
		if err != nil {
			//nolint:errcheck // Already failing.
			f.Close()

			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}

		return &stackedWriter{WriteCloser: enc, file: f}, nil
	}

	return f, nil
}

// OpenContainer opens the container file at path, decompressing according to
// its extension.
func OpenContainer(path string) (io.ReadCloser, error) {
	c, ok := codecFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContainer, path)
	}

	f, err := os.Open(path) //nolint:gosec // Input path is a user-provided CLI argument.
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}

	switch c {
	case codecGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			//nolint:errcheck // Already failing.
			f.Close()

			return nil, fmt.Errorf("open gzip container: %w", err)
		}

		return &stackedReader{Reader: zr, close: zr.Close, file: f}, nil

	case codecZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			//nolint:errcheck // Already failing.
			f.Close()

			return nil, fmt.Errorf("open zstd container: %w", err)
		}

		return &stackedReader{Reader: dec, close: func() error { dec.Close(); return nil }, file: f}, nil
	}

	return f, nil
}

// stackedWriter closes a codec writer before the file beneath it.
type stackedWriter struct {
	io.WriteCloser
	file *os.File
}

func (w *stackedWriter) Close() error {
	return errors.Join(w.WriteCloser.Close(), w.file.Close())
}

// stackedReader closes a codec reader before the file beneath it.
type stackedReader struct {
	io.Reader
	close func() error
	file  *os.File
}

func (r *stackedReader) Close() error {
	return errors.Join(r.close(), r.file.Close())
}
