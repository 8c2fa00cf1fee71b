package ui

import (
	"fmt"

	"github.com/mgutz/ansi"
)

var (
	green  = ansi.ColorFunc("green")
	red    = ansi.ColorFunc("red")
	yellow = ansi.ColorFunc("yellow")
	cyan   = ansi.ColorFunc("cyan")
)

// Success prints a success message with checkmark
func Success(message string) {
	fmt.Printf("%s %s\n", green("✓"), message)
}

// Error prints an error message
func Error(message string) {
	fmt.Printf("%s %s\n", red("✗"), message)
}

// Info prints an info message
func Info(message string) {
	fmt.Printf("%s %s\n", cyan("ℹ"), message)
}

// Warning prints a warning message
func Warning(message string) {
	fmt.Printf("%s %s\n", yellow("⚠"), message)
}
