package alignment

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// DP layers. M ends in a diagonal move, I in a gap in x (consumes y),
// D in a gap in y (consumes x).
const (
	layerM byte = iota
	layerI
	layerD
	layerStart // no predecessor: the matrix origin, or a local restart
)

// negInf marks unreachable cells. It is far enough from the int limits that
// adding penalties never wraps.
const negInf = -1 << 30

// pointer packs the predecessor layer of each of the three layers of a cell:
// bits 0-1 for M, 2-3 for I and 4-5 for D.
type pointer uint8

func makePointer(fromM, fromI, fromD byte) pointer {
	return pointer(fromM) | pointer(fromI)<<2 | pointer(fromD)<<4
}

func (p pointer) from(layer byte) byte {
	return byte(p>>(2*layer)) & 0x3
}

var startPointer = makePointer(layerStart, layerStart, layerStart)

// best3 returns the largest of the three layer scores. Ties go to the
// diagonal, then to the gap in x, then to the gap in y.
func best3(m, i, d int) (int, byte) {
	best, from := m, layerM
	if i > best {
		best, from = i, layerI
	}
	if d > best {
		best, from = d, layerD
	}
	return best, from
}

// Aligner computes global and local alignments with affine gaps.
//
// An Aligner keeps its DP buffers between calls, so it is not safe for
// concurrent use. Use one Aligner per goroutine, or the package-level
// Align which borrows one from a pool.
type Aligner struct {
	Scoring *Scoring

	// reusable variables
	pointers []pointer // (len(x)+1) * (len(y)+1) traceback matrix
	rows     [6][]int  // previous and current rows of M, I and D
	ops      []Op      // reversed trace
}

// NewAligner returns an aligner. A nil scoring model means BLOSUM62.
func NewAligner(scoring *Scoring) *Aligner {
	if scoring == nil {
		scoring = BLOSUM62()
	}
	return &Aligner{Scoring: scoring}
}

var poolAligner = &sync.Pool{New: func() interface{} {
	return &Aligner{}
}}

// Align aligns x against y in the given mode. A nil scoring model means
// BLOSUM62. It is safe for concurrent use.
func Align(x, y []byte, mode Mode, scoring *Scoring) (*Alignment, error) {
	if scoring == nil {
		scoring = BLOSUM62()
	}
	alg := poolAligner.Get().(*Aligner)
	alg.Scoring = scoring
	defer func() {
		alg.Scoring = nil
		poolAligner.Put(alg)
	}()
	return alg.Align(x, y, mode)
}

// AlignString aligns two residue strings with a mode given by name.
func AlignString(x, y, mode string) (*Alignment, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return Align([]byte(x), []byte(y), m, nil)
}

// Align dispatches to Global or Local.
func (alg *Aligner) Align(x, y []byte, mode Mode) (*Alignment, error) {
	switch mode {
	case Global:
		return alg.Global(x, y)
	case Local:
		return alg.Local(x, y)
	default:
		return nil, &InvalidModeError{Mode: fmt.Sprintf("Mode(%d)", int(mode))}
	}
}

// ScoreOnly returns the optimal score without building a trace, using
// O(len(y)) memory.
func (alg *Aligner) ScoreOnly(x, y []byte, mode Mode) (int, error) {
	sc, err := alg.validate(x, y)
	if err != nil {
		return 0, err
	}
	alg.prepare(len(x), len(y), false)

	switch mode {
	case Global:
		score, _ := alg.fillGlobal(x, y, sc, nil)
		return score, nil
	case Local:
		score, _, _ := alg.fillLocal(x, y, sc, nil)
		return score, nil
	default:
		return 0, &InvalidModeError{Mode: fmt.Sprintf("Mode(%d)", int(mode))}
	}
}

// ScoreOnly is the pooled, concurrency-safe form of Aligner.ScoreOnly.
func ScoreOnly(x, y []byte, mode Mode, scoring *Scoring) (int, error) {
	if scoring == nil {
		scoring = BLOSUM62()
	}
	alg := poolAligner.Get().(*Aligner)
	alg.Scoring = scoring
	defer func() {
		alg.Scoring = nil
		poolAligner.Put(alg)
	}()
	return alg.ScoreOnly(x, y, mode)
}

func (alg *Aligner) validate(x, y []byte) (*Scoring, error) {
	if alg.Scoring == nil {
		alg.Scoring = BLOSUM62()
	}
	if err := alg.Scoring.Validate(x); err != nil {
		return nil, errors.Wrap(err, "sequence x")
	}
	if err := alg.Scoring.Validate(y); err != nil {
		return nil, errors.Wrap(err, "sequence y")
	}
	return alg.Scoring, nil
}

// prepare sizes the reusable buffers for an m x n problem and returns the
// pointer matrix when a trace is wanted.
func (alg *Aligner) prepare(m, n int, trace bool) []pointer {
	for k := range alg.rows {
		if cap(alg.rows[k]) < n+1 {
			alg.rows[k] = make([]int, n+1)
		}
		alg.rows[k] = alg.rows[k][:n+1]
	}
	if !trace {
		return nil
	}

	size := (m + 1) * (n + 1)
	if cap(alg.pointers) < size {
		alg.pointers = make([]pointer, size)
	}
	return alg.pointers[:size]
}

// traceback walks the pointer matrix from cell (i, j) in the given layer
// until it reaches the origin or a local restart. Operations are collected
// in reverse into alg.ops. It returns the cell where the walk stopped.
func (alg *Aligner) traceback(x, y []byte, ptr []pointer, w, i, j int, layer byte) (int, int) {
	ops := alg.ops[:0]

	for i > 0 || j > 0 {
		p := ptr[i*w+j]

		switch layer {
		case layerM:
			if sameResidue(x[i-1], y[j-1]) {
				ops = append(ops, opMatch)
			} else {
				ops = append(ops, opSubst)
			}
			layer = p.from(layerM)
			i--
			j--
		case layerI:
			ops = append(ops, opInsert)
			layer = p.from(layerI)
			j--
		case layerD:
			ops = append(ops, opDelete)
			layer = p.from(layerD)
			i--
		}

		if layer == layerStart {
			break
		}
	}

	alg.ops = ops
	return i, j
}

// buildOperations reverses the collected trace and wraps it in clips for
// the unaligned flanks.
func (alg *Aligner) buildOperations(xStart, xEnd, xLen, yStart, yEnd, yLen int) []Op {
	ops := make([]Op, 0, len(alg.ops)+4)

	if xStart > 0 {
		ops = append(ops, NewClip(ClipStart, AxisX, xStart))
	}
	if yStart > 0 {
		ops = append(ops, NewClip(ClipStart, AxisY, yStart))
	}
	for k := len(alg.ops) - 1; k >= 0; k-- {
		ops = append(ops, alg.ops[k])
	}
	if xLen > xEnd {
		ops = append(ops, NewClip(ClipEnd, AxisX, xLen-xEnd))
	}
	if yLen > yEnd {
		ops = append(ops, NewClip(ClipEnd, AxisY, yLen-yEnd))
	}

	return ops
}

func sameResidue(a, b byte) bool {
	return upper(a) == upper(b)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
