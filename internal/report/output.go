// Package report writes all-pairs results as text or TSV, optionally
// gzip-compressed, and draws score histograms.
package report

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// BufferSize is the size of the output buffer.
const BufferSize = 1 << 16

// Output is a buffered output stream: stdout for "-", otherwise a file,
// gzip-compressed when the name ends with ".gz".
type Output struct {
	*bufio.Writer

	gw *pgzip.Writer
	fh *os.File
}

// Open creates the output stream. level is the gzip compression level.
func Open(file string, level int) (*Output, error) {
	o := &Output{}
	var w io.Writer

	if file == "-" || file == "" {
		w = os.Stdout
	} else {
		fh, err := os.Create(file)
		if err != nil {
			return nil, errors.Wrapf(err, "create %s", file)
		}
		o.fh = fh
		w = fh

		if strings.HasSuffix(strings.ToLower(file), ".gz") {
			gw, err := pgzip.NewWriterLevel(fh, level)
			if err != nil {
				fh.Close()
				return nil, errors.Wrap(err, "gzip writer")
			}
			o.gw = gw
			w = gw
		}
	}

	o.Writer = bufio.NewWriterSize(w, BufferSize)
	return o, nil
}

// Close flushes buffered data and closes the compressor and the file.
// Stdout is flushed but left open.
func (o *Output) Close() error {
	err := o.Flush()
	if o.gw != nil {
		if e := o.gw.Close(); err == nil {
			err = e
		}
	}
	if o.fh != nil {
		if e := o.fh.Close(); err == nil {
			err = e
		}
	}
	return err
}
