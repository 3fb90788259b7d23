// Package keyboard reads single keystrokes from a terminal without blocking
// the caller past its context.
//
// A [Terminal] puts its file into raw mode only for the duration of one
// [Terminal.ReadKey] call, so a cancelled read always leaves the terminal as
// it found it. [Watch] runs one such read in the background and reports the
// keystroke on a channel; [Watcher.Stop] cancels the read and waits for it.
package keyboard
