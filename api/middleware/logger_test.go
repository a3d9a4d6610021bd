package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/aria-lang/compseq-go/internal/applog"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	applog.Setup(&buf, false, false)
	t.Cleanup(func() { applog.Setup(os.Stderr, false, false) })

	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		want    string
	}{
		{
			name:    "implicit ok",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("OK")) },
			status:  http.StatusOK,
			want:    "GET /health 200 2B",
		},
		{
			name: "bad request",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", http.StatusBadRequest)
			},
			status: http.StatusBadRequest,
			want:   "GET /health 400",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			status: http.StatusInternalServerError,
			want:   "[WARN] [req-1] GET /health 500 0B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			h := chimiddleware.RequestID(Logger(tt.handler))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set(chimiddleware.RequestIDHeader, "req-1")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
