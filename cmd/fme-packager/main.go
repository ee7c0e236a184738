package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/safesoftware/fme-packager/internal/cli"
	"github.com/safesoftware/fme-packager/pkg/fpkg"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(fpkg.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(fpkg.ExitCodeForError(err))
	}
}
