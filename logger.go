package h2session

import "log"

// Logger is satisfied by *log.Logger and by fasthttp.Logger, so an embedder
// already running fasthttp can hand the session its existing logger.
type Logger interface {
	Printf(format string, args ...interface{})
}

type defaultLogger struct {
	l *log.Logger
}

func newDefaultLogger() Logger {
	return &defaultLogger{l: log.New(log.Writer(), "[h2session] ", log.LstdFlags)}
}

func (d *defaultLogger) Printf(format string, args ...interface{}) {
	d.l.Printf(format, args...)
}
