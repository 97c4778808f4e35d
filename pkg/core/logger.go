package core

import (
	"fmt"
	"strconv"
)

// DefaultLogger implements Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// NopLogger discards everything. Library stages use it until a logger is set.
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
