// Package tui renders the live run dashboard. A bubbletea program shows one
// row per task with its status, a spinner while running and the recent stderr
// tail, redrawn as engine events arrive. The program uses the alternate
// screen; the final summary is written to stderr after the program exits, so
// it survives on the normal screen. When stderr is not a terminal a plain
// line-per-transition renderer is used instead.
package tui
