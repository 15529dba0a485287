// Package main is the entry point for the forge CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/graphforge/forge/internal/cmd"
	oerrors "github.com/graphforge/forge/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	rootCmd := cmd.NewRootCmd()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return oerrors.ExitSuccess
	}

	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		// Only print if the command layer hasn't already printed it
		if !exitErr.Printed {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, err)
	return oerrors.ExitCodeFromError(err)
}
