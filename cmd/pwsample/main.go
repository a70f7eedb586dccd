// File: cmd/pwsample/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/pwsample/cmd"
)

// Allows mocking os.Exit in tests.
var osExit = os.Exit

// main is the entry point of the application.
func main() {
	// SIGTERM cancels the context and is passed on to the runner. Ctrl+C
	// already reaches the runner through the terminal's process group, so
	// pwsample only keeps itself alive and waits for the runner's status.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)

	code := cmd.Execute(ctx)
	signal.Stop(interrupts)
	stop()
	osExit(code)
}
