// Package kmer provides residue k-mer counting and the alignment-free
// distances used to prefilter pairs before alignment.
package kmer

import (
	"fmt"
	"sort"

	"github.com/aria-lang/compseq-go/internal/sequence"
)

// Unknown is the residue code for an unidentified amino acid. K-mers
// containing it are not counted.
const Unknown = 'X'

// KMerCount represents a k-mer and its count.
type KMerCount struct {
	KMer  string
	Count int
}

// Counter provides k-mer counting functionality.
type Counter struct {
	K      int
	Counts map[string]int
	Total  int
}

// NewCounter creates a new k-mer counter with the specified k value.
func NewCounter(k int) (*Counter, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	return &Counter{
		K:      k,
		Counts: make(map[string]int),
	}, nil
}

// Add adds a k-mer count.
func (c *Counter) Add(kmer string, count int) error {
	if len(kmer) != c.K {
		return fmt.Errorf("k-mer length %d doesn't match k=%d", len(kmer), c.K)
	}
	if count <= 0 {
		return fmt.Errorf("count must be positive")
	}

	c.Counts[string(sequence.Upper([]byte(kmer)))] += count
	c.Total += count
	return nil
}

// CountKMers counts all k-mers of residues, skipping those that contain
// an unknown residue.
func (c *Counter) CountKMers(residues []byte) {
	eachKMer(residues, c.K, func(kmer []byte) {
		c.Counts[string(kmer)]++
		c.Total++
	})
}

// GetCount returns the count for a specific k-mer.
func (c *Counter) GetCount(kmer string) (int, error) {
	if len(kmer) != c.K {
		return 0, fmt.Errorf("k-mer length doesn't match k=%d", c.K)
	}
	return c.Counts[string(sequence.Upper([]byte(kmer)))], nil
}

// UniqueCount returns the number of unique k-mers.
func (c *Counter) UniqueCount() int {
	return len(c.Counts)
}

// MostFrequent returns the n most frequent k-mers. Ties are broken by
// k-mer order.
func (c *Counter) MostFrequent(n int) ([]KMerCount, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive")
	}

	counts := make([]KMerCount, 0, len(c.Counts))
	for kmer, count := range c.Counts {
		counts = append(counts, KMerCount{KMer: kmer, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].KMer < counts[j].KMer
	})

	if n > len(counts) {
		n = len(counts)
	}
	return counts[:n], nil
}

// Frequency calculates the frequency of a k-mer.
func (c *Counter) Frequency(kmer string) (float64, error) {
	if c.Total == 0 {
		return 0.0, nil
	}
	count, err := c.GetCount(kmer)
	if err != nil {
		return 0, err
	}
	return float64(count) / float64(c.Total), nil
}

// Merge merges another Counter into this one.
func (c *Counter) Merge(other *Counter) error {
	if c.K != other.K {
		return fmt.Errorf("k values must match")
	}

	for kmer, count := range other.Counts {
		c.Counts[kmer] += count
		c.Total += count
	}
	return nil
}

func (c *Counter) String() string {
	return fmt.Sprintf("KMerCounter { k: %d, unique: %d, total: %d }", c.K, c.UniqueCount(), c.Total)
}

// Count counts all k-mers in a sequence.
func Count(s *sequence.Sequence, k int) (*Counter, error) {
	counter, err := NewCounter(k)
	if err != nil {
		return nil, err
	}
	counter.CountKMers(s.Residues)
	return counter, nil
}

// eachKMer calls fn for every k-mer without an unknown residue. The slice
// passed to fn aliases residues.
func eachKMer(residues []byte, k int, fn func(kmer []byte)) {
	last := -1 // position of the most recent unknown residue
	for i, b := range residues {
		if b == Unknown || b == Unknown+('a'-'A') {
			last = i
		}
		if i+1 < k || i-k+1 <= last {
			continue
		}
		fn(residues[i-k+1 : i+1])
	}
}
