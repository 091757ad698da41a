package display

import (
	"os"

	"golang.org/x/term"
)

// Terminal color codes, cleared by Configure when colors are off
var (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// Configure disables colors when asked to or when stdout is not a terminal
func Configure(noColor bool) {
	if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		Disable()
	}
}

// Disable turns all color codes into empty strings
func Disable() {
	Reset, Red, Green, Yellow, Blue, Magenta, Cyan, White = "", "", "", "", "", "", "", ""
}

// Prompt returns a colored prompt string
func Prompt(text string) string {
	return Yellow + text + Yellow + " > " + Reset
}

// ColorForOwner returns a colored owner name
func ColorForOwner(owner string) string {
	switch owner {
	case "player":
		return Blue + "Player" + Reset
	case "computer":
		return Red + "Computer" + Reset
	default:
		return owner
	}
}
