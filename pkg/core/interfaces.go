package core

import "github.com/golang/glog"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// GlogLogger forwards log lines to glog at the given verbosity
type GlogLogger struct {
	Verbosity glog.Level
}

// Printf implements Logger
func (l GlogLogger) Printf(format string, args ...interface{}) {
	if l.Verbosity > 0 {
		glog.V(l.Verbosity).Infof(format, args...)
		return
	}
	glog.Infof(format, args...)
}

// NopLogger discards everything
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}
