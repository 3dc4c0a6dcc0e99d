// Package logging provides ConsoleLogger, the userfs.Logger used by ufsctl.
// It writes formatted messages to an io.Writer (stderr by default) and is
// safe for concurrent use by multiple goroutines. An FS without a logger
// discards its messages.
package logging
