// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"firfilt/cmd"
	"firfilt/internal/log"
	"firfilt/pkg/build"
)

// main is the entry point for the FIR filter tool.
// The program flow is divided into two phases:
//
// 1. Startup Phase:
//   - Initialize build information
//   - Install signal handling so long WAV runs can be interrupted
//
// 2. Command Phase:
//   - Resolve configuration (defaults, YAML file, environment, flags)
//   - Design the filter and run the requested subcommand
func main() {
	// Development builds run without ldflags and keep the defaults.
	if err := build.Initialize(); err != nil {
		log.Debugf("build info: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		stop()
		log.Fatalf("%v", err)
	}
	stop()
}
