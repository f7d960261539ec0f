package colors

// init enables ANSI coloring for the current console. Unix terminals support it out of the box, Windows consoles need
// to be queried first.
func init() {
	EnableColor()
}
