// Package main provides the CLI entrypoint for provider-generator.
//
// provider-generator is a compile-time dependency wiring tool that:
//   - Finds struct types annotated with //inject:provide(...)
//   - Reads per-field inject:"depend(...)" tags
//   - Generates a provider per type that asks a module for each dependency
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"provider-generator/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.RootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
