package main

import (
	"fmt"
	"os"

	"github.com/rocketscienceinc/gridtactoe/internal/cli"
)

// main - is the entry point of the application. It runs the root command and exits non-zero on failure.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
