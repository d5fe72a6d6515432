// Package testutil provides shared test helpers.
package testutil

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger returns a silent logger for tests.
func Logger() zerolog.Logger {
	return zerolog.New(io.Discard)
}
