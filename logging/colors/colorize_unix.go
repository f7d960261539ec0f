//go:build !windows
// +build !windows

package colors

import "fmt"

// enabled reports whether Colorize emits ANSI escape codes.
var enabled = true

// EnableColor turns ANSI coloring back on. Non-windows terminals are assumed to support escape codes.
func EnableColor() {
	enabled = true
}

// DisableColor turns off ANSI coloring for every subsequent Colorize call.
func DisableColor() {
	enabled = false
}

// Colorize returns the string s wrapped in ANSI code c, or s as-is when coloring is disabled.
// Source: https://github.com/rs/zerolog/blob/4fff5db29c3403bc26dee9895e12a108aacc0203/console.go
func Colorize(s any, c Color) string {
	if !enabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
