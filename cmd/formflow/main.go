// Command formflow is the form submission engine's command line entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/formflow/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	app, err := wire("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer app.Close()

	cli.SetVersion(version)
	cli.SetServices(app.services)

	// cobra reports the error itself
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
