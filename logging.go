package ppp

import goLog "log"

// Logger receives diagnostic messages from the core. Library code never
// logs on its own; it only calls through this interface so a host CLI can
// opt in.
type Logger interface {
	Logf(format string, a ...interface{})
}

type dummyLogger struct{}

func (logger *dummyLogger) Logf(format string, a ...interface{}) {}

type stdlibLogger struct{}

func (logger *stdlibLogger) Logf(format string, a ...interface{}) {
	goLog.Printf(format, a...)
}

var log Logger = &dummyLogger{}

// EnableLogging routes diagnostics to the standard log package. For more
// flexibility, use SetLogger.
func EnableLogging() {
	SetLogger(&stdlibLogger{})
}

// SetLogger sets the destination for diagnostics, or disables logging
// entirely when logger is nil.
func SetLogger(logger Logger) {
	if logger == nil {
		log = &dummyLogger{}
		return
	}
	log = logger
}
