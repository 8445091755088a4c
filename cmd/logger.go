package main

import "log"

// stdLogger adapts the info/error logger pair to services.Logger.
type stdLogger struct {
	info *log.Logger
	err  *log.Logger
}

func (l stdLogger) Infof(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l stdLogger) Errorf(format string, args ...interface{}) {
	l.err.Printf(format, args...)
}
