// Package applog configures the process-wide logger.
package applog

import (
	"io"
	"os"
	"runtime"

	colorable "github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
)

// Module is the logger name shared by every package.
const Module = "compseq"

// Log is the shared logger.
var Log = logging.MustGetLogger(Module)

var (
	colorFormat = logging.MustStringFormatter(
		`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`,
	)
	plainFormat = logging.MustStringFormatter(
		`%{time:15:04:05.000} [%{level:.4s}] %{message}`,
	)
)

func init() {
	Setup(os.Stderr, false, false)
}

// Setup sends log records to w. quiet keeps warnings and errors only,
// verbose adds debug records.
func Setup(w io.Writer, quiet, verbose bool) {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), plainFormat)
	leveled := logging.SetBackend(backend)
	leveled.SetLevel(level(quiet, verbose), Module)
}

// SetupCLI logs to a colored stderr and, if file is not empty, also to that
// file. The returned closer must be closed on exit.
func SetupCLI(quiet, verbose bool, file string) (io.Closer, error) {
	var stderr io.Writer = os.Stderr
	if runtime.GOOS == "windows" {
		stderr = colorable.NewColorableStderr()
	}
	backends := []logging.Backend{
		logging.NewBackendFormatter(logging.NewLogBackend(stderr, "", 0), colorFormat),
	}

	var fh *os.File
	if file != "" {
		var err error
		fh, err = os.Create(file)
		if err != nil {
			return nil, errors.Wrap(err, "create log file")
		}
		backends = append(backends,
			logging.NewBackendFormatter(logging.NewLogBackend(fh, "", 0), plainFormat))
	}

	leveled := logging.SetBackend(backends...)
	leveled.SetLevel(level(quiet, verbose), Module)

	if fh == nil {
		return nopCloser{}, nil
	}
	return fh, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func level(quiet, verbose bool) logging.Level {
	switch {
	case quiet:
		return logging.WARNING
	case verbose:
		return logging.DEBUG
	default:
		return logging.INFO
	}
}
