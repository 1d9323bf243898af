package version

import (
	"fmt"
	"io"
	"runtime"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// UserAgent identifies artcrate in logs and the serve banner.
func UserAgent() string { return "artcrate/" + Version }

func Print(w io.Writer) {
	fmt.Fprintln(w, "artcrate - game asset catalog browser")
	fmt.Fprintf(w, "  %-11s %s\n", "Version:", Version)
	fmt.Fprintf(w, "  %-11s %s\n", "Go Version:", GoVersion)
	fmt.Fprintf(w, "  %-11s %s\n", "Git Commit:", Commit)
	fmt.Fprintf(w, "  %-11s %s\n", "Built:", Date)
	fmt.Fprintf(w, "  %-11s %s/%s\n", "OS/Arch:", runtime.GOOS, runtime.GOARCH)
}
