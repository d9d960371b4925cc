package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/picket-dev/picket/cmd/picket/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	if err := cli.New().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
