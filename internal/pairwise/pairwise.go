// Package pairwise aligns every distinct pair of a sequence set on a pool
// of workers and hands the results to the caller in pair order.
package pairwise

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/aria-lang/compseq-go/internal/alignment"
	"github.com/aria-lang/compseq-go/internal/applog"
	"github.com/aria-lang/compseq-go/internal/kmer"
	"github.com/aria-lang/compseq-go/internal/metrics"
	"github.com/aria-lang/compseq-go/internal/sequence"
)

var log = applog.Log

// Options controls an all-pairs run.
type Options struct {
	Mode alignment.Mode

	// number of worker goroutines, < 1 means all CPUs
	Threads int

	// k-mer prefilter: pairs whose k-mer Jaccard distance exceeds
	// MaxKmerDistance are skipped. A MaxKmerDistance of 1 or more turns the
	// prefilter off.
	KmerSize        int
	MaxKmerDistance float64

	// Progress, if not nil, is called after each visited result with the
	// number of pairs done so far.
	Progress func(done int)
}

func (o *Options) prefilter() bool {
	return o.MaxKmerDistance < 1 && o.KmerSize > 0
}

// Result is the outcome for the pair (I, J), I < J. X is sequence I and
// Y is sequence J.
type Result struct {
	I, J     int
	XID, YID string
	Mode     alignment.Mode

	Score      int
	Identity   int
	Similarity int
	CIGAR      string

	// set when the prefilter ruled the pair out, in which case only
	// KmerDistance is meaningful
	Skipped      bool
	KmerDistance float64
}

// PairCount returns the number of distinct pairs among n sequences.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

type job struct {
	i, j int
}

// Run aligns every pair (i, j) with i < j in order of i, then j, and calls
// visit with each result in that same order. The first error, from an
// alignment or from visit, stops the run and is returned. Cancelling ctx
// stops the run with ctx.Err().
func Run(ctx context.Context, seqs []*sequence.Sequence, opts Options, visit func(*Result) error) error {
	total := PairCount(len(seqs))
	if total == 0 {
		return nil
	}

	threads := opts.Threads
	if threads < 1 {
		threads = runtime.NumCPU()
	}
	if threads > total {
		threads = total
	}

	var sketches []*kmer.Sketch
	if opts.prefilter() {
		var err error
		if sketches, err = buildSketches(seqs, opts.KmerSize); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	jobs := make(chan job, threads*2)
	results := make(chan *Result, threads*2)
	memo := newCache()

	// workers
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			alg := alignment.NewAligner(nil)
			for {
				select {
				case <-ctx.Done():
					return
				case jb, ok := <-jobs:
					if !ok {
						return
					}
					r, err := compute(alg, memo, seqs, sketches, opts, jb)
					if err != nil {
						fail(err)
						return
					}
					select {
					case results <- r:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// collector: results arrive out of order and leave in pair order
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make(map[int]*Result, threads*4)
		next := 0
		for r := range results {
			buf[pairIndex(len(seqs), r.I, r.J)] = r
			for {
				r, ok := buf[next]
				if !ok {
					break
				}
				delete(buf, next)
				next++

				if ctx.Err() != nil {
					continue
				}
				if err := visit(r); err != nil {
					fail(err)
					continue
				}
				if opts.Progress != nil {
					opts.Progress(next)
				}
			}
		}
	}()

	// feed
feed:
	for i := 0; i < len(seqs)-1; i++ {
		for j := i + 1; j < len(seqs); j++ {
			select {
			case <-ctx.Done():
				break feed
			case jobs <- job{i: i, j: j}:
			}
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	<-done

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Debugf("aligned %d pairs (%d computed, %d reused)", total, memo.misses, memo.hits)
	return nil
}

// Collect runs Run and returns all results in pair order.
func Collect(ctx context.Context, seqs []*sequence.Sequence, opts Options) ([]*Result, error) {
	results := make([]*Result, 0, PairCount(len(seqs)))
	err := Run(ctx, seqs, opts, func(r *Result) error {
		results = append(results, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// pairIndex is the enumeration number of pair (i, j) among n sequences.
func pairIndex(n, i, j int) int {
	return i*n - i*(i+1)/2 + (j - i - 1)
}

func buildSketches(seqs []*sequence.Sequence, k int) ([]*kmer.Sketch, error) {
	sketches := make([]*kmer.Sketch, len(seqs))
	for i, s := range seqs {
		sk, err := kmer.NewSketch(s.Residues, k)
		if err != nil {
			return nil, errors.Wrap(err, "k-mer prefilter")
		}
		sketches[i] = sk
	}
	return sketches, nil
}

func compute(alg *alignment.Aligner, c *cache, seqs []*sequence.Sequence, sketches []*kmer.Sketch, opts Options, jb job) (*Result, error) {
	x, y := seqs[jb.i], seqs[jb.j]
	r := &Result{
		I: jb.i, J: jb.j,
		XID: x.ID, YID: y.ID,
		Mode: opts.Mode,
	}

	if sketches != nil {
		sx, sy := sketches[jb.i], sketches[jb.j]
		// sequences too short to have a k-mer are always aligned
		if sx.Len() > 0 && sy.Len() > 0 {
			d, err := sx.Jaccard(sy)
			if err != nil {
				return nil, err
			}
			r.KmerDistance = d
			if d > opts.MaxKmerDistance {
				r.Skipped = true
				return r, nil
			}
		}
	}

	if v, ok := c.get(x.Residues, y.Residues, opts.Mode); ok {
		r.Score, r.Identity, r.Similarity, r.CIGAR = v.Score, v.Identity, v.Similarity, v.cigar
		return r, nil
	}

	a, err := alg.Align(x.Residues, y.Residues, opts.Mode)
	if err != nil {
		return nil, errors.Wrapf(err, "align %s and %s", x.ID, y.ID)
	}
	m, err := metrics.Compute(a, x.Residues, y.Residues, alg.Scoring)
	if err != nil {
		return nil, errors.Wrapf(err, "metrics of %s and %s", x.ID, y.ID)
	}

	r.Score, r.Identity, r.Similarity, r.CIGAR = m.Score, m.Identity, m.Similarity, a.CIGAR()
	c.put(x.Residues, y.Residues, opts.Mode, value{Result: m, cigar: r.CIGAR})
	return r, nil
}
