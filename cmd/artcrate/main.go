package main

import (
	"os"

	cmd "github.com/MrSnakeDoc/artcrate/internal"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
