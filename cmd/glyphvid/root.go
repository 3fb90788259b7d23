package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/glyphvid/keyboard"
	"go.jacobcolvin.com/glyphvid/playback"
	"go.jacobcolvin.com/glyphvid/video"
)

func (a *app) newRootCommand() *cobra.Command {
	pf := &playFlags{}

	cmd := &cobra.Command{
		Use:   "glyphvid [flags] <video|frame_directory|container>",
		Short: "Play videos in the terminal as glyph art",
		Long: `glyphvid converts each frame of a video into text, mapping pixel brightness
onto a ramp of glyphs, and plays the frames in place at the video's frame rate.
Press any key to stop playback.

Inputs ending in .txt, .txt.gz or .txt.zst are glyph containers written by
--export or "glyphvid convert" and are played without decoding.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			return a.play(cmd.Context(), args[0], pf)
		},
	}

	pflags := cmd.PersistentFlags()
	a.cfg.RegisterFlags(pflags)
	a.profile.RegisterFlags(pflags)
	pflags.BoolVar(&a.noProgress, "no-progress", false, "do not draw a progress bar while converting")
	pf.register(cmd)

	a.registerCompletions(cmd)

	cmd.AddCommand(
		a.newPlayCommand(),
		a.newConvertCommand(),
		a.newCastCommand(),
		a.newConfigCommand(),
		a.newVersionCommand(),
	)

	return cmd
}

func (a *app) registerCompletions(cmd *cobra.Command) {
	err := a.cfg.RegisterCompletions(cmd)
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	err = a.profile.RegisterCompletions(cmd)
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}
}

// playFlags holds the flags of the play command, which the root command
// shares.
type playFlags struct {
	export string
	stderr bool
}

func (f *playFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.export, "export", "",
		fmt.Sprintf("also write the converted frames to a container (%v)", video.ContainerExtensions()))
	flags.BoolVar(&f.stderr, "stderr", false, "play to stderr instead of stdout")

	err := cmd.RegisterFlagCompletionFunc("export",
		func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return []string{"txt", "gz", "zst"}, cobra.ShellCompDirectiveFilterFileExt
		})
	if err != nil {
		panic(err)
	}
}

func (a *app) newPlayCommand() *cobra.Command {
	pf := &playFlags{}

	cmd := &cobra.Command{
		Use:   "play [flags] <video|frame_directory|container>",
		Short: "Play a video or glyph container in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.play(cmd.Context(), args[0], pf)
		},
	}

	pf.register(cmd)

	return cmd
}

func (a *app) play(ctx context.Context, path string, pf *playFlags) error {
	v, err := a.openVideo(ctx, path)
	if err != nil {
		return err
	}

	if pf.export != "" {
		err := v.ExportFile(pf.export)
		if err != nil {
			return fmt.Errorf("export %s: %w", pf.export, err)
		}

		a.logger.InfoContext(ctx, "exported frames", slog.String("path", pf.export))
	}

	var out io.Writer = a.stdout
	if pf.stderr {
		out = a.stderr
	}

	opts := []playback.Option{playback.WithLogger(a.logger)}

	if a.stdin != nil && term.IsTerminal(int(a.stdin.Fd())) { //nolint:gosec // File descriptors fit in int.
		kb, err := keyboard.NewTerminal(a.stdin, keyboard.Backend(a.cfg.Keyboard))
		if err != nil {
			return err
		}

		opts = append(opts, playback.WithKeyboard(kb))
	}

	res, err := playback.New(out, opts...).Play(ctx, v)
	if err != nil {
		return fmt.Errorf("play %s: %w", path, err)
	}

	if res.State == playback.StateIdle {
		a.logger.WarnContext(ctx, "output is not a terminal, nothing was played",
			slog.String("path", path))
	}

	return nil
}
