package source

import (
	"context"
	"image"
	"io"
)

// Memory is a [Source] over frames held in memory.
type Memory struct {
	frames []*image.Gray
	info   Info
	next   int
}

// NewMemory creates a [Memory] source that plays frames at rate frames per
// second.
func NewMemory(rate float64, frames ...*image.Gray) *Memory {
	info := Info{
		FrameRate:  rate,
		FrameCount: len(frames),
	}

	if len(frames) > 0 {
		info.Width = frames[0].Bounds().Dx()
		info.Height = frames[0].Bounds().Dy()
	}

	return &Memory{frames: frames, info: info}
}

// Info returns the stream description.
func (m *Memory) Info() Info {
	return m.info
}

// Next returns the next frame, or [io.EOF] after the last one.
func (m *Memory) Next(ctx context.Context) (*image.Gray, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	if m.next >= len(m.frames) {
		return nil, io.EOF
	}

	f := m.frames[m.next]
	m.next++

	return f, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
