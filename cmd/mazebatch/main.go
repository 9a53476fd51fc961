// Package main is the entry point for mazebatch.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/samdwyer/mazebatch/internal/cli"
	"github.com/samdwyer/mazebatch/internal/telemetry"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	telemetry.ConfigureHoneycombEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code. Telemetry
// is flushed before it returns so failed runs keep their spans.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	runID := cli.NewRunID()

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx, runID)
		if err != nil {
			// Not fatal - batches still run untraced
			log.Printf("Warning: telemetry setup failed: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	if err := cli.Execute(ctx, runID, args, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "mazebatch: %v\n", err)
		return 1
	}
	return 0
}
