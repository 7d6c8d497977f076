// Package logger provides the service's zerolog setup.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

var installOnce sync.Once

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// installMarshalers makes .Stack() render a pkg/errors stack for every error,
// attaching one at the log site when the error carries none.
func installMarshalers() {
	installOnce.Do(func() {
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			if _, ok := err.(stackTracer); !ok {
				err = pkgerrors.WithStack(err)
			}
			return zpkgerrors.MarshalStack(err)
		}
	})
}

// New returns a JSON logger on stdout tagged with serviceName.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName string) zerolog.Logger {
	return NewWithWriter(os.Stdout, serviceName, os.Getenv("COACH_SERVICE_LOG_LEVEL"))
}

// NewWithWriter is New with an explicit sink and level name. Unknown or empty
// levels mean info.
func NewWithWriter(w io.Writer, serviceName, level string) zerolog.Logger {
	installMarshalers()
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
