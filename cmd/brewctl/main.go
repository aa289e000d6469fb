// Command brewctl runs schema migrations and seeding for the Brewhub backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"brewhub/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
