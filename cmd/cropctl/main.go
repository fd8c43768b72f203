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

	if err := newRootCmd(newSurveyPrompter()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cropctl: %v\n", err)
		os.Exit(1)
	}
}
