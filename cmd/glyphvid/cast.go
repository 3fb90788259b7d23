package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/glyphvid/asciicast"
)

func (a *app) newCastCommand() *cobra.Command {
	var (
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "cast [flags] <video|frame_directory|container> -o <file.cast>",
		Short: "Record playback as an asciinema recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			v, err := a.openVideo(ctx, args[0])
			if err != nil {
				return err
			}

			if title == "" {
				title = args[0]
			}

			f, err := os.Create(output) //nolint:gosec // Output path is a user-provided CLI argument.
			if err != nil {
				return fmt.Errorf("create recording: %w", err)
			}

			err = asciicast.Encode(f, v, asciicast.Header{
				Title:     title,
				Timestamp: time.Now(),
				Env:       map[string]string{"TERM": "xterm-256color"},
			})

			err = errors.Join(err, f.Close())
			if err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			a.logger.InfoContext(ctx, "wrote recording",
				slog.String("path", output),
				slog.Int("frames", v.Len()),
			)

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "recording to write")
	cmd.Flags().StringVar(&title, "title", "", "recording title (default: the input path)")

	err := cmd.MarkFlagRequired("output")
	if err != nil {
		panic(err)
	}

	return cmd
}
