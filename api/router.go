// Package api wires the compseq HTTP handlers into a router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aria-lang/compseq-go/api/handlers"
	"github.com/aria-lang/compseq-go/api/middleware"
	"github.com/aria-lang/compseq-go/internal/config"
)

// NewRouter builds the API router. threads is the number of alignment
// workers of a pairwise request.
func NewRouter(cfg *config.Config, threads int) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(time.Duration(cfg.Server.Timeout) * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/alignment", func(r chi.Router) {
			r.Post("/score", handlers.AlignmentScoreHandler)
			r.Post("/pairwise", handlers.PairwiseHandler(cfg.Server.MaxRecords, threads))
			r.Post("/{mode}", handlers.AlignHandler)
		})

		r.Route("/sequence", func(r chi.Router) {
			r.Post("/validate", handlers.ValidateHandler)
			r.Post("/info", handlers.SequenceInfoHandler)
			r.Post("/stats", handlers.SequenceSetStatsHandler)
		})

		r.Route("/kmer", func(r chi.Router) {
			r.Post("/count", handlers.KMerCountHandler)
			r.Post("/most-frequent", handlers.MostFrequentKMersHandler)
			r.Post("/distance", handlers.KMerDistanceHandler)
			r.Post("/shared", handlers.SharedKMersHandler)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(indexPage))
	})

	return r
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
    <title>compseq API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>compseq API</h1>
    <p>Pairwise protein alignment with percent identity and similarity.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/{global|local}</code>
        <p>Align a query against a reference.</p>
        <pre>{"sequence1": "LSPADKTNVK", "sequence2": "LSPADQTNVK"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/pairwise</code>
        <p>Align every distinct pair of records.</p>
        <pre>{"mode": "local", "records": [{"id": "a", "sequence": "LSPADKTNVK"}, {"id": "b", "sequence": "ALSPADQTNVK"}]}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/score</code>
        <p>Optimal alignment score only.</p>
        <pre>{"sequence1": "ACDEF", "sequence2": "ACEF", "mode": "global"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/sequence/validate</code>
        <p>Check that every residue can be scored by BLOSUM62.</p>
        <pre>{"sequence": "MKTAYIAKQRQ"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/kmer/distance</code>
        <p>Jaccard and cosine k-mer distances.</p>
        <pre>{"sequence1": "LSPADKTNVK", "sequence2": "LSPADQTNVK", "k": 3}</pre>
    </div>
</body>
</html>`
