package video

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/glyphvid/glyph"
)

// Metadata is the YAML sidecar stored next to a frame container. It records
// what the container itself cannot.
type Metadata struct {
	Alphabet   string `yaml:"alphabet,omitempty"`
	IntervalMS int64  `yaml:"interval_ms"`
	Columns    int    `yaml:"columns,omitempty"`
	Rows       int    `yaml:"rows,omitempty"`
	Frames     int    `yaml:"frames"`
}

// MetadataPath returns the sidecar path for a container path.
func MetadataPath(container string) string {
	return container + ".yaml"
}

// Metadata returns the sidecar contents describing v.
func (v *Video) Metadata() Metadata {
	return Metadata{
		Alphabet:   v.Alphabet,
		IntervalMS: v.Interval.Milliseconds(),
		Columns:    v.Size.Columns,
		Rows:       v.Size.Rows,
		Frames:     v.Len(),
	}
}

// ReadMetadata reads the sidecar for container. It returns nil and no error
// when the sidecar does not exist.
func ReadMetadata(container string) (*Metadata, error) {
	data, err := os.ReadFile(MetadataPath(container))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var m Metadata

	err = yaml.Unmarshal(data, &m)
	if err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", MetadataPath(container), err)
	}

	return &m, nil
}

// WriteMetadata writes m as the sidecar for container.
func WriteMetadata(container string, m Metadata) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	err = os.WriteFile(MetadataPath(container), data, 0o644) //nolint:gosec // Sidecar is not sensitive.
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return nil
}

// ExportFile writes v to the container at path and its [Metadata] to the
// sidecar. An empty video creates neither file.
func (v *Video) ExportFile(path string) error {
	if v.Len() == 0 {
		return nil
	}

	w, err := CreateContainer(path)
	if err != nil {
		return err
	}

	err = v.Export(w)
	closeErr := w.Close()

	if err != nil {
		return err
	}

	if closeErr != nil {
		return fmt.Errorf("close container: %w", closeErr)
	}

	return WriteMetadata(path, v.Metadata())
}

// LoadFile loads the container at path.
//
// The interval is taken from the first of: a positive interval argument, the
// sidecar's interval, [DefaultInterval]. Size and alphabet come from the
// sidecar when present.
func LoadFile(path string, interval time.Duration) (*Video, error) {
	meta, err := ReadMetadata(path)
	if err != nil {
		return nil, err
	}

	if interval <= 0 && meta != nil {
		interval = time.Duration(meta.IntervalMS) * time.Millisecond
	}

	r, err := OpenContainer(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		//nolint:errcheck // Read-only.
		r.Close()
	}()

	v, err := Load(r, interval)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if meta != nil {
		v.Size = glyph.Dimensions{Columns: meta.Columns, Rows: meta.Rows}
		v.Alphabet = meta.Alphabet
	}

	return v, nil
}
