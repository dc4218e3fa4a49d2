//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// shutdownSignals cancel a running batch. SIGTERM does not exist on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}

// notifyContext returns a context canceled on Ctrl+C.
// Call stop() to restore default signal handling.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
