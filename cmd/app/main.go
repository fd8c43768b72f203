package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "crop-advisor: failed to wire application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "crop-advisor: stopped with error: %v\n", err)
		os.Exit(1)
	}
}
