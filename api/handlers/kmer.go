package handlers

import (
	"net/http"

	"github.com/aria-lang/compseq-go/internal/kmer"
)

// KMerRequest represents a k-mer count request.
type KMerRequest struct {
	Sequence string `json:"sequence"`
	K        int    `json:"k"`
	N        int    `json:"n,omitempty"`
}

// KMerCountResponse represents the response for k-mer counting.
type KMerCountResponse struct {
	K           int            `json:"k"`
	UniqueCount int            `json:"unique_count"`
	TotalCount  int            `json:"total_count"`
	Counts      map[string]int `json:"counts"`
}

// KMerCountHandler counts the k-mers of a sequence.
func KMerCountHandler(w http.ResponseWriter, r *http.Request) {
	var req KMerRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	counter, ok := count(w, &req)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, KMerCountResponse{
		K:           req.K,
		UniqueCount: counter.UniqueCount(),
		TotalCount:  counter.Total,
		Counts:      counter.Counts,
	})
}

// KMerItem represents a k-mer and its count.
type KMerItem struct {
	KMer  string `json:"kmer"`
	Count int    `json:"count"`
}

// MostFrequentResponse represents the response for most frequent k-mers.
type MostFrequentResponse struct {
	KMers []KMerItem `json:"kmers"`
}

// MostFrequentKMersHandler returns the n most frequent k-mers, 10 by
// default.
func MostFrequentKMersHandler(w http.ResponseWriter, r *http.Request) {
	var req KMerRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	if req.N == 0 {
		req.N = 10
	}
	counter, ok := count(w, &req)
	if !ok {
		return
	}

	top, err := counter.MostFrequent(req.N)
	if err != nil {
		fail(w, badRequestf("%s", err))
		return
	}
	items := make([]KMerItem, len(top))
	for i, kc := range top {
		items[i] = KMerItem{KMer: kc.KMer, Count: kc.Count}
	}
	writeJSON(w, http.StatusOK, MostFrequentResponse{KMers: items})
}

func count(w http.ResponseWriter, req *KMerRequest) (*kmer.Counter, bool) {
	if req.K <= 0 {
		fail(w, badRequestf("k must be positive"))
		return nil, false
	}
	s, err := parseSequence("sequence", req.Sequence)
	if err != nil {
		fail(w, err)
		return nil, false
	}
	counter, err := kmer.Count(s, req.K)
	if err != nil {
		fail(w, badRequestf("%s", err))
		return nil, false
	}
	return counter, true
}

// KMerPairRequest represents a request comparing two sequences.
type KMerPairRequest struct {
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
	K         int    `json:"k"`
}

// KMerDistanceResponse represents the response for k-mer distances.
type KMerDistanceResponse struct {
	K       int     `json:"k"`
	Jaccard float64 `json:"jaccard"`
	Cosine  float64 `json:"cosine"`
}

// KMerDistanceHandler returns the Jaccard and cosine k-mer distances.
func KMerDistanceHandler(w http.ResponseWriter, r *http.Request) {
	var req KMerPairRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	x, y, err := parsePair(&AlignmentRequest{Sequence1: req.Sequence1, Sequence2: req.Sequence2})
	if err != nil {
		fail(w, err)
		return
	}

	jaccard, err := kmer.JaccardDistance(x.Residues, y.Residues, req.K)
	if err != nil {
		fail(w, badRequestf("%s", err))
		return
	}
	cosine, err := kmer.CosineDistance(x.Residues, y.Residues, req.K)
	if err != nil {
		fail(w, badRequestf("%s", err))
		return
	}
	writeJSON(w, http.StatusOK, KMerDistanceResponse{K: req.K, Jaccard: jaccard, Cosine: cosine})
}

// SharedKMersResponse represents the response for shared k-mers.
type SharedKMersResponse struct {
	K      int      `json:"k"`
	Shared []string `json:"shared"`
}

// SharedKMersHandler returns the k-mers found in both sequences.
func SharedKMersHandler(w http.ResponseWriter, r *http.Request) {
	var req KMerPairRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	x, y, err := parsePair(&AlignmentRequest{Sequence1: req.Sequence1, Sequence2: req.Sequence2})
	if err != nil {
		fail(w, err)
		return
	}

	shared, err := kmer.SharedKMers(x.Residues, y.Residues, req.K)
	if err != nil {
		fail(w, badRequestf("%s", err))
		return
	}
	writeJSON(w, http.StatusOK, SharedKMersResponse{K: req.K, Shared: shared})
}
