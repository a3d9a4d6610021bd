package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aria-lang/compseq-go/internal/pairwise"
)

// Format is an output layout.
type Format string

const (
	// Text writes one sentence per pair.
	Text Format = "text"
	// TSV writes a header line and one tab-separated row per pair.
	TSV Format = "tsv"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, TSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q: select either text or tsv", s)
}

// TSVHeader lists the TSV columns.
const TSVHeader = "query\ttarget\tmode\tscore\tidentity\tsimilarity\tcigar\tkmer_distance"

// Writer formats results onto an io.Writer.
type Writer struct {
	w      io.Writer
	format Format
	header bool
}

// NewWriter returns a Writer for the given format.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Write formats one result.
func (w *Writer) Write(r *pairwise.Result) error {
	var err error
	switch w.format {
	case TSV:
		if !w.header {
			if _, err = fmt.Fprintln(w.w, TSVHeader); err != nil {
				return err
			}
			w.header = true
		}
		_, err = fmt.Fprintln(w.w, tsvRow(r))
	default:
		_, err = fmt.Fprintln(w.w, textLine(r))
	}
	return err
}

func textLine(r *pairwise.Result) string {
	if r.Skipped {
		return fmt.Sprintf("Alignment between %s and %s: skipped, k-mer distance %.3f.",
			r.XID, r.YID, r.KmerDistance)
	}
	return fmt.Sprintf("Alignment between %s and %s: identity %d%%, similarity %d%%.",
		r.XID, r.YID, r.Identity, r.Similarity)
}

func tsvRow(r *pairwise.Result) string {
	score, ident, sim, cigar := "NA", "NA", "NA", "NA"
	if !r.Skipped {
		score = strconv.Itoa(r.Score)
		ident = strconv.Itoa(r.Identity)
		sim = strconv.Itoa(r.Similarity)
		cigar = r.CIGAR
		if cigar == "" {
			cigar = "*"
		}
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.4f",
		r.XID, r.YID, r.Mode, score, ident, sim, cigar, r.KmerDistance)
}
