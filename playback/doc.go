// Package playback renders a [video.Video] in place on a terminal.
//
// Each frame is written at the cursor, held for the video's interval, and
// then overwritten by moving the cursor back to where the frame began, so the
// terminal never scrolls. A keystroke read by a [keyboard.Watcher] or a
// cancelled context stops playback before the next frame. Either way the
// frame area is cleared and a one-line status is printed.
package playback
