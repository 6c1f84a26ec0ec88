// Package logger hands out named zap loggers for command-line
// entrypoints.
package logger

import (
	"go.uber.org/zap"
)

// New returns a named sugared logger. Logs go to stderr so stdout
// stays clean for command output.
func New(name string) (*zap.SugaredLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	return l.Named(name).Sugar(), nil
}
