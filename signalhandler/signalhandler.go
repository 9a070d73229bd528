package signalhandler

import (
	"context"
	"os/signal"
	"runtime"
	"syscall"
)

// NotifyContext returns a context cancelled on SIGINT or SIGTERM
// so long-running commands can stop their workers and close C resources cleanly.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// GetOptimalProcs returns the optimal number of worker goroutines for the system
func GetOptimalProcs() int {
	numCPU := runtime.NumCPU()

	// Extraction shells out to exiftool and hashing goes through cgo; keep some headroom
	maxProcs := (numCPU * 3) / 4
	if maxProcs < 1 {
		maxProcs = 1
	}

	return maxProcs
}

// Workers returns n when positive, otherwise GetOptimalProcs
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return GetOptimalProcs()
}
