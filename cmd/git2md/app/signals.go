package app

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/sliday/git2md/pkg/logger"
)

// exitInterrupted is the exit status after a forced shutdown
const exitInterrupted = 130

// signalState tracks the state of signal handling
type signalState struct {
	shutdownInitiated atomic.Bool
}

// setupSignalHandling cancels the run on the first SIGINT or SIGTERM and
// exits on the second. The returned function stops the handler.
func (a *App) setupSignalHandling() func() {
	state := &signalState{}

	a.log.Debug("Initializing signal handlers")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go a.handleSignals(sigChan, done, state)

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// handleSignals processes incoming system signals
func (a *App) handleSignals(sigChan chan os.Signal, done chan struct{}, state *signalState) {
	for {
		select {
		case <-done:
			return
		case sig := <-sigChan:
			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if !state.shutdownInitiated.CompareAndSwap(false, true) {
				a.handleForcedShutdown()
				return
			}
			a.handleGracefulShutdown()
		}
	}
}

// handleGracefulShutdown cancels the running conversion; Run returns with
// the cancellation error and deferred cleanup removes any clone
func (a *App) handleGracefulShutdown() {
	a.log.Warn("Interrupt received, cancelling conversion (press again to force)")
	a.cancel()
}

// handleForcedShutdown exits immediately
func (a *App) handleForcedShutdown() {
	a.log.Warn("Forced shutdown initiated")
	os.Exit(exitInterrupted)
}
