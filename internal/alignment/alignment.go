package alignment

import (
	"fmt"
	"strings"
)

// Alignment is the result of aligning sequence x against sequence y.
//
// Offsets are half-open. Operations is the full trace: replayed from (0, 0)
// it lands at (XLen, YLen). Local alignments carry ClipStart/ClipEnd
// operations for the unaligned flanks; Core drops them, and the core
// replayed from (XStart, YStart) lands at (XEnd, YEnd).
type Alignment struct {
	Score      int
	XStart     int
	XEnd       int
	YStart     int
	YEnd       int
	XLen       int
	YLen       int
	Mode       Mode
	Operations []Op
}

// Core returns the operations between the flanking clips.
func (a *Alignment) Core() []Op {
	ops := a.Operations
	for len(ops) > 0 && ops[0].Type() == ClipStart {
		ops = ops[1:]
	}
	for len(ops) > 0 && ops[len(ops)-1].Type() == ClipEnd {
		ops = ops[:len(ops)-1]
	}
	return ops
}

// Check verifies that the trace agrees with the offsets and lengths.
func (a *Alignment) Check() error {
	if a.XStart < 0 || a.XStart > a.XEnd || a.XEnd > a.XLen {
		return violationf("x region [%d, %d) outside sequence of length %d", a.XStart, a.XEnd, a.XLen)
	}
	if a.YStart < 0 || a.YStart > a.YEnd || a.YEnd > a.YLen {
		return violationf("y region [%d, %d) outside sequence of length %d", a.YStart, a.YEnd, a.YLen)
	}

	xi, yi := a.XStart, a.YStart
	for k, op := range a.Core() {
		if op.IsClip() {
			return violationf("clip operation %s inside the aligned region at step %d", op, k)
		}
		dx, dy := op.Consumes()
		xi += dx
		yi += dy
	}
	if xi != a.XEnd || yi != a.YEnd {
		return violationf("core trace ends at (%d, %d), expected (%d, %d)", xi, yi, a.XEnd, a.YEnd)
	}

	xi, yi = 0, 0
	for _, op := range a.Operations {
		dx, dy := op.Consumes()
		xi += dx
		yi += dy
	}
	if xi != a.XLen || yi != a.YLen {
		return violationf("full trace ends at (%d, %d), expected (%d, %d)", xi, yi, a.XLen, a.YLen)
	}
	return nil
}

// Length returns the number of columns in the aligned region.
func (a *Alignment) Length() int {
	n := 0
	for _, op := range a.Operations {
		if !op.IsClip() {
			n++
		}
	}
	return n
}

func (a *Alignment) count(t OpType) int {
	n := 0
	for _, op := range a.Operations {
		if op.Type() == t {
			n++
		}
	}
	return n
}

// MatchCount returns the number of identical diagonal moves.
func (a *Alignment) MatchCount() int { return a.count(Match) }

// SubstCount returns the number of substitutions.
func (a *Alignment) SubstCount() int { return a.count(Subst) }

// GapCount returns the number of gap columns.
func (a *Alignment) GapCount() int { return a.count(Delete) + a.count(Insert) }

// GapOpenings counts the number of gap runs.
func (a *Alignment) GapOpenings() int {
	openings := 0
	prev := lastOpType
	for _, op := range a.Operations {
		t := op.Type()
		if (t == Delete || t == Insert) && t != prev {
			openings++
		}
		prev = t
	}
	return openings
}

// CIGAR renders the trace with x as the query and y as the reference:
// '=' match, 'X' substitution, 'I' residue only in x, 'D' residue only in y,
// 'S' for clipped x flanks. Clipped y flanks are not part of a CIGAR.
func (a *Alignment) CIGAR() string {
	var cigar strings.Builder
	var current byte
	count := 0

	flush := func() {
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, current)
		}
	}

	for _, op := range a.Operations {
		var c byte
		n := 1
		switch op.Type() {
		case Match:
			c = '='
		case Subst:
			c = 'X'
		case Delete:
			c = 'I'
		case Insert:
			c = 'D'
		case ClipStart, ClipEnd:
			if op.Axis() != AxisX || op.Len() == 0 {
				continue
			}
			c, n = 'S', op.Len()
		}

		if c == current {
			count += n
			continue
		}
		flush()
		current, count = c, n
	}
	flush()

	return cigar.String()
}

// Format returns a three-line view of the aligned region of x and y.
func (a *Alignment) Format(x, y []byte) string {
	var top, mid, bottom strings.Builder
	xi, yi := a.XStart, a.YStart

	for _, op := range a.Core() {
		switch op.Type() {
		case Match:
			top.WriteByte(x[xi])
			mid.WriteByte('|')
			bottom.WriteByte(y[yi])
			xi++
			yi++
		case Subst:
			top.WriteByte(x[xi])
			mid.WriteByte('.')
			bottom.WriteByte(y[yi])
			xi++
			yi++
		case Delete:
			top.WriteByte(x[xi])
			mid.WriteByte(' ')
			bottom.WriteByte('-')
			xi++
		case Insert:
			top.WriteByte('-')
			mid.WriteByte(' ')
			bottom.WriteByte(y[yi])
			yi++
		}
	}

	return fmt.Sprintf("x: %5d %s %d\n         %s\ny: %5d %s %d\nScore: %d\nCIGAR: %s",
		a.XStart+1, top.String(), a.XEnd,
		mid.String(),
		a.YStart+1, bottom.String(), a.YEnd,
		a.Score, a.CIGAR())
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { mode: %s, score: %d, x: [%d, %d) of %d, y: [%d, %d) of %d, length: %d }",
		a.Mode, a.Score, a.XStart, a.XEnd, a.XLen, a.YStart, a.YEnd, a.YLen, a.Length())
}
