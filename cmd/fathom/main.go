// Command fathom browses an exported issue set in the terminal, with an
// incremental search over every issue.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version is set at build time via ldflags
var Version = ""

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
