// Package handlers provides HTTP handlers for the compseq API.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/aria-lang/compseq-go/internal/alignment"
	"github.com/aria-lang/compseq-go/internal/applog"
	"github.com/aria-lang/compseq-go/internal/sequence"
)

var log = applog.Log

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warningf("encode response: %s", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// fail answers 400 for bad input, 503 for requests cut short by their
// deadline and 500 for everything else.
func fail(w http.ResponseWriter, err error) {
	writeError(w, statusOf(err), err)
}

func statusOf(err error) int {
	var (
		modeErr     *alignment.InvalidModeError
		alphabetErr *alignment.AlphabetError
		seqErr      sequence.SequenceError
		requestErr  *badRequest
	)
	switch {
	case errors.As(err, &modeErr),
		errors.As(err, &alphabetErr),
		errors.As(err, &seqErr),
		errors.As(err, &requestErr):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...interface{}) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequestf("invalid request body: %s", err)
	}
	return nil
}

// parseSequence validates residues, naming the field on failure.
func parseSequence(field, residues string) (*sequence.Sequence, error) {
	s, err := sequence.New(residues)
	if err != nil {
		return nil, errors.Wrap(err, field)
	}
	return s, nil
}
