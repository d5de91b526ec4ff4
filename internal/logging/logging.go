// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New returns a logrus logger. An empty level means info and an empty format
// means text.
func New(opts Options) (*logrus.Logger, error) {
	log := logrus.New()
	if opts.Output != nil {
		log.SetOutput(opts.Output)
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		l, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}
	log.SetLevel(level)

	switch opts.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}
	return log, nil
}

// Discard returns a logger that writes nothing.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
