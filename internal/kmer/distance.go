package kmer

import (
	"fmt"
	"math"

	"github.com/zeebo/wyhash"
)

// Sketch is the set of k-mer hashes of one sequence.
type Sketch struct {
	K      int
	hashes map[uint64]struct{}
}

const sketchSeed = 1

// NewSketch hashes every k-mer of residues. A sequence shorter than k
// yields an empty sketch.
func NewSketch(residues []byte, k int) (*Sketch, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	s := &Sketch{K: k, hashes: make(map[uint64]struct{}, max(len(residues)-k+1, 0))}
	eachKMer(residues, k, func(kmer []byte) {
		s.hashes[wyhash.Hash(kmer, sketchSeed)] = struct{}{}
	})
	return s, nil
}

// Len returns the number of distinct k-mers.
func (s *Sketch) Len() int {
	return len(s.hashes)
}

// Shared returns the number of k-mers present in both sketches.
func (s *Sketch) Shared(other *Sketch) int {
	a, b := s.hashes, other.hashes
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for h := range a {
		if _, ok := b[h]; ok {
			n++
		}
	}
	return n
}

// Jaccard returns 1 - |A∩B| / |A∪B|. Two empty sketches have distance 0.
func (s *Sketch) Jaccard(other *Sketch) (float64, error) {
	if s.K != other.K {
		return 0, fmt.Errorf("k values must match")
	}
	inter := s.Shared(other)
	union := s.Len() + other.Len() - inter
	if union == 0 {
		return 0.0, nil
	}
	return 1.0 - float64(inter)/float64(union), nil
}

// JaccardDistance calculates the Jaccard distance between the k-mer sets of
// two sequences.
func JaccardDistance(x, y []byte, k int) (float64, error) {
	if k <= 0 {
		return 0, fmt.Errorf("k must be positive")
	}
	if k > len(x) || k > len(y) {
		return 0, fmt.Errorf("k cannot exceed sequence lengths")
	}

	sx, _ := NewSketch(x, k)
	sy, _ := NewSketch(y, k)
	return sx.Jaccard(sy)
}

// SharedKMers finds k-mers shared between two sequences, in order of first
// occurrence in x.
func SharedKMers(x, y []byte, k int) ([]string, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}
	if k > len(x) || k > len(y) {
		return nil, fmt.Errorf("k cannot exceed sequence lengths")
	}

	cy, _ := NewCounter(k)
	cy.CountKMers(y)

	seen := make(map[string]struct{})
	result := make([]string, 0)
	eachKMer(x, k, func(kmer []byte) {
		key := string(kmer)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		if _, ok := cy.Counts[key]; ok {
			result = append(result, key)
		}
	})

	return result, nil
}

// CosineDistance calculates the cosine distance between k-mer count
// vectors.
func CosineDistance(x, y []byte, k int) (float64, error) {
	if k <= 0 {
		return 0, fmt.Errorf("k must be positive")
	}
	if k > len(x) || k > len(y) {
		return 0, fmt.Errorf("k cannot exceed sequence lengths")
	}

	cx, _ := NewCounter(k)
	cx.CountKMers(x)
	cy, _ := NewCounter(k)
	cy.CountKMers(y)

	var dot, mag1, mag2 float64
	for kmer, v := range cx.Counts {
		v1 := float64(v)
		dot += v1 * float64(cy.Counts[kmer])
		mag1 += v1 * v1
	}
	for _, v := range cy.Counts {
		mag2 += float64(v) * float64(v)
	}

	if mag1 == 0 || mag2 == 0 {
		return 1.0, nil
	}

	return 1.0 - dot/(math.Sqrt(mag1)*math.Sqrt(mag2)), nil
}
