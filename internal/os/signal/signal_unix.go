//go:build !windows

package signal

import (
	"os"
	"syscall"
)

// InterruptSignals contains a list of signals that are treated as interrupts.
var InterruptSignals = []os.Signal{syscall.SIGTERM, syscall.SIGINT}
