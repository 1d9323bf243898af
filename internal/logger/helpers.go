package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int  // -V, -VV
	FlagQuiet        bool // --quiet/-q
	FlagJSON         bool // --json-logs
)

func ConfigureLoggerFromFlags() {
	if testMode.Load() {
		return
	}
	var w io.Writer = os.Stderr
	level := "info"
	switch {
	case FlagQuiet:
		level = "error"
	case FlagVerboseCount > 0:
		level = "debug"
	}

	Configure(Options{
		Level: level,
		JSON:  FlagJSON,
		Color: !FlagJSON,
		Out:   w,
	})
}
