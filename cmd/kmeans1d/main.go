// Command kmeans1d clusters one-dimensional data, generates synthetic
// inputs and measures how clustering throughput scales with worker count.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("kmeans1d failed", "err", err)
		stop()
		os.Exit(1)
	}
}
