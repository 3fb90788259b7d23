package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpeg is a [Source] that probes a file with ffprobe and streams raw 8-bit
// gray frames out of an ffmpeg pipe.
type FFmpeg struct {
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	stop    func() bool
	waitErr error
	buf     []byte
	info    Info
	waited  bool
}

// probeResult is the subset of ffprobe's JSON output that is used.
type probeResult struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
	} `json:"streams"`
}

// OpenFFmpeg probes path and starts decoding it.
func OpenFFmpeg(ctx context.Context, path string) (*FFmpeg, error) {
	_, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg not found in PATH", ErrDecoderMissing)
	}

	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", path, err)
	}

	info, err := parseProbe(raw)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", path, err)
	}

	cmd := ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"format":   "rawvideo",
			"pix_fmt":  "gray",
			"loglevel": "error",
		}).
		Silent(true).
		Compile()

	return startPipe(ctx, cmd, info)
}

// startPipe runs cmd and reads frames of info's size from its stdout. The
// process is killed when ctx is done.
func startPipe(ctx context.Context, cmd *exec.Cmd, info Info) (*FFmpeg, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}

	stop := context.AfterFunc(ctx, func() {
		//nolint:errcheck // The process may already have exited.
		cmd.Process.Kill()
	})

	return &FFmpeg{
		cmd:    cmd,
		stdout: stdout,
		stop:   stop,
		buf:    make([]byte, info.Width*info.Height),
		info:   info,
	}, nil
}

// Info returns the stream description.
func (f *FFmpeg) Info() Info {
	return f.info
}

// Next reads the next raw frame. It returns [io.EOF] only when ffmpeg exited
// cleanly after a whole number of frames; a failed exit or a partial frame is
// an error.
func (f *FFmpeg) Next(ctx context.Context) (*image.Gray, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	_, err = io.ReadFull(f.stdout, f.buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		waitErr := f.wait()

		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case waitErr != nil:
			return nil, fmt.Errorf("ffmpeg: %w", waitErr)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, fmt.Errorf("ffmpeg: partial frame: %w", err)
		}

		return nil, io.EOF
	}

	if err != nil {
		return nil, fmt.Errorf("reading ffmpeg output: %w", err)
	}

	img := image.NewGray(image.Rect(0, 0, f.info.Width, f.info.Height))
	copy(img.Pix, f.buf)

	return img, nil
}

// Close stops ffmpeg and waits for it to exit. Exit errors were already
// reported by [FFmpeg.Next]; a process still running is killed.
func (f *FFmpeg) Close() error {
	f.stop()

	if f.waited {
		return nil
	}

	//nolint:errcheck // Killing an exited process is harmless.
	f.cmd.Process.Kill()
	//nolint:errcheck // Error is expected after the process is killed.
	f.wait()

	return nil
}

// wait reaps the process once and remembers its exit error.
func (f *FFmpeg) wait() error {
	if !f.waited {
		f.waited = true
		f.waitErr = f.cmd.Wait()
	}

	return f.waitErr
}

// parseProbe extracts the first video stream from ffprobe JSON output.
func parseProbe(raw string) (Info, error) {
	var res probeResult

	err := json.Unmarshal([]byte(raw), &res)
	if err != nil {
		return Info{}, fmt.Errorf("decoding ffprobe output: %w", err)
	}

	for _, s := range res.Streams {
		if s.CodecType != "" && s.CodecType != "video" {
			continue
		}

		if s.Width <= 0 || s.Height <= 0 {
			continue
		}

		rate := parseRate(s.RFrameRate)
		if rate <= 0 {
			rate = parseRate(s.AvgFrameRate)
		}

		count, _ := strconv.Atoi(s.NbFrames) //nolint:errcheck // Missing counts stay 0.

		return Info{
			FrameRate:  rate,
			FrameCount: count,
			Width:      s.Width,
			Height:     s.Height,
		}, nil
	}

	return Info{}, fmt.Errorf("%w: no video stream", ErrNoFrames)
}

// parseRate parses an ffprobe rational such as "30000/1001".
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}

	if !found {
		return n
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}

	return n / d
}
