package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/glyphvid/video"
)

func (a *app) newConvertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [flags] <video|frame_directory|container> -o <container>",
		Short: "Convert a video into a glyph container without playing it",
		Long: fmt.Sprintf(`Convert a video into glyph frames and write them to a container.

The container format follows the output extension (%s). A YAML
sidecar holding the frame interval and size is written next to it.
Containers can be converted too, which recompresses them.`,
			strings.Join(video.ContainerExtensions(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !video.IsContainer(output) {
				return fmt.Errorf("%w: %q", video.ErrUnknownContainer, output)
			}

			ctx := cmd.Context()

			v, err := a.openVideo(ctx, args[0])
			if err != nil {
				return err
			}

			err = v.ExportFile(output)
			if err != nil {
				return fmt.Errorf("export %s: %w", output, err)
			}

			a.logger.InfoContext(ctx, "wrote container",
				slog.String("path", output),
				slog.Int("frames", v.Len()),
			)

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "container to write")

	err := cmd.MarkFlagRequired("output")
	if err != nil {
		panic(err)
	}

	return cmd
}
