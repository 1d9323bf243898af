package printer

import (
	"fmt"

	"github.com/fatih/color"
)

type ColorPrinter struct {
	Success func(format string, a ...interface{}) string
	Error   func(format string, a ...interface{}) string
	Warning func(format string, a ...interface{}) string
	Info    func(format string, a ...interface{}) string
	Debug   func(format string, a ...interface{}) string
	Accent  func(format string, a ...interface{}) string
}

// NewColorPrinter returns a printer; with enabled=false every func is a
// plain Sprintf so JSON logs and piped output stay free of ANSI codes.
func NewColorPrinter(enabled bool) *ColorPrinter {
	if !enabled {
		return &ColorPrinter{
			Success: fmt.Sprintf,
			Error:   fmt.Sprintf,
			Warning: fmt.Sprintf,
			Info:    fmt.Sprintf,
			Debug:   fmt.Sprintf,
			Accent:  fmt.Sprintf,
		}
	}
	return &ColorPrinter{
		Success: color.New(color.FgGreen).SprintfFunc(),
		Error:   color.New(color.FgRed).SprintfFunc(),
		Warning: color.New(color.FgYellow).SprintfFunc(),
		Info:    color.New(color.FgBlue).SprintfFunc(),
		Debug:   color.New(color.FgCyan).SprintfFunc(),
		Accent:  color.New(color.FgMagenta, color.Bold).SprintfFunc(),
	}
}
