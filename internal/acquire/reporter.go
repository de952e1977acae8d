package acquire

import "io"

// TransferReporter observes byte progress during transfers. Implementations
// only display progress; they have no effect on acquisition control flow.
type TransferReporter interface {
	// StartTransfer is called once per download attempt before the first
	// byte arrives. totalBytes is the transport-level length hint, or -1
	// when the total is unknown.
	StartTransfer(fileName string, totalBytes int64) TransferTracker
}

// TransferTracker accumulates the bytes of one attempt. The engine writes
// every received chunk through it and calls Finish exactly once when the
// attempt ends, whether or not it succeeded.
type TransferTracker interface {
	io.Writer
	Finish()
}

// NopReporter discards all progress.
type NopReporter struct{}

// StartTransfer implements TransferReporter.
func (NopReporter) StartTransfer(string, int64) TransferTracker { return nopTracker{} }

type nopTracker struct{}

func (nopTracker) Write(p []byte) (int, error) { return len(p), nil }
func (nopTracker) Finish()                     {}
