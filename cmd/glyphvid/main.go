// Command glyphvid converts videos into glyph frames and plays them in the
// terminal.
//
// # Usage
//
//	glyphvid [flags] <video|frame_directory|container>
//	glyphvid convert <video> -o clip.txt.zst
//	glyphvid cast <video|container> -o clip.cast
//	glyphvid config schema
//	glyphvid version
//
// Containers (".txt", ".txt.gz", ".txt.zst") are loaded as-is; anything else
// is decoded and converted first. Press any key to stop playback.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)

	err := a.newRootCommand().ExecuteContext(ctx)

	stopErr := a.teardown()
	if stopErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", stopErr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	if stopErr != nil {
		return 1
	}

	return 0
}
