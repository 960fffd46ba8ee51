package taskqueue

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured-logging type accepted by WorkerPool and Service,
// for operational diagnostics only (never for delivering task results, which
// always go through Callback). A nil Logger is valid and logs nothing.
//
// The concrete event type is fixed to stumpy's, the pack's own zero-dependency
// JSON backend for logiface, so callers need only build one with
// NewDefaultLogger, or stumpy.L.New(...) directly, to customize the writer.
type Logger = *logiface.Logger[*stumpy.Event]

// NewDefaultLogger builds a Logger writing newline-delimited JSON to os.Stderr
// via stumpy, the same combination used for ad-hoc diagnostics elsewhere in
// the pack (see stumpy's own example tests).
func NewDefaultLogger() Logger {
	return stumpy.L.New(stumpy.L.WithStumpy())
}

// logError logs a single error-level diagnostic, if logger is non-nil.
func logError(logger Logger, msg string, err error) {
	if logger == nil {
		return
	}
	logger.Err().Err(err).Log(msg)
}

// logWarn logs a single warn-level diagnostic with an integer field, if
// logger is non-nil.
func logWarn(logger Logger, msg string, field string, value int) {
	if logger == nil {
		return
	}
	logger.Warning().Int(field, value).Log(msg)
}
