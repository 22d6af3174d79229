/*
Package logger wraps uber-go/zap behind a small interface with verbosity
levels and structured fields. Every git2md component receives a Logger in its
constructor.

Basic usage:

	log := logger.NewLogger(logger.Config{
	    Verbosity: 0, // INFO
	})

	log.Info("Conversion started")
	log.Debug("Reading file")      // verbosity >= 1
	log.Trace("Classifier prefix") // verbosity >= 2

Structured logging:

	log.WithFields(logger.Fields{
	    "root":  "/src/project",
	    "files": 42,
	}).Info("Tree built")

Output (JSON encoder, the default):

	{"level":"info","ts":"2024-01-20T15:04:05.000Z","message":"Tree built","files":42,"root":"/src/project"}

Setting Format to FormatConsole switches to zap's console encoder, which is
easier to read when running git2md by hand.

The logger is safe for concurrent use; tree building logs from worker
goroutines.
*/
package logger
