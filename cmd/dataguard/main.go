// Command dataguard validates a relational dataset against the data-quality
// rule catalog, probes the store's constraint enforcement and serves both
// over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// overridden during build with ldflags
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "dataguard:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process status:
// 0 success, 2 a failed verdict or unenforced constraint, 1 anything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrRunFailed), errors.Is(err, ErrConstraintNotEnforced):
		return 2
	default:
		return 1
	}
}
