// Package color provides ANSI escape sequences for terminal text formatting.
// Color output is decided once at startup: the NO_COLOR environment variable
// disables it, FORCE_COLOR forces it on, and otherwise it is enabled only when
// stderr is a terminal.
package color
