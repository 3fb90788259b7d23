// Package video holds glyph videos: ordered [glyph.Frame] sequences with a
// playback interval.
//
// A [Video] is either generated from a [source.Source] with [Generate] or
// loaded from a frame container with [Load]. The container is plain text with
// one frame per line; [Video.Export] writes it and [Load] reads it back, so
// the frames of a video survive a round trip unchanged:
//
//	var buf bytes.Buffer
//	err := v.Export(&buf)
//	loaded, err := video.Load(&buf, v.Interval)
//
// The container does not record the interval. [ExportFile] stores it in a
// YAML sidecar next to the container, and [LoadFile] reads it back when the
// caller does not supply one. Container files ending in ".gz" or ".zst" are
// compressed transparently.
package video
