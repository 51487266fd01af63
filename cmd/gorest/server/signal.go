package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignal returns a context that is canceled on SIGINT or SIGTERM.
// Once canceled, default signal handling is restored so a second signal
// terminates a shutdown that hangs.
func WithSignal(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-ctx.Done()
		stop()
	}()

	return ctx, stop
}
