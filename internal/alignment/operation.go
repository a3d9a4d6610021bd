package alignment

import "fmt"

// OpType is the kind of a single step in an alignment trace.
type OpType uint8

const (
	Match     OpType = iota // identical residues on a diagonal move
	Subst                   // different residues on a diagonal move
	Delete                  // residue of x against a gap (consumes x only)
	Insert                  // residue of y against a gap (consumes y only)
	ClipStart               // unaligned residues before the aligned region
	ClipEnd                 // unaligned residues after the aligned region
	lastOpType
)

var opTypeNames = []string{"Match", "Subst", "Delete", "Insert", "ClipStart", "ClipEnd", "?"}

func (t OpType) String() string {
	if t > lastOpType {
		t = lastOpType
	}
	return opTypeNames[t]
}

// Axis says which sequence a clip operation skips.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Op is one trace operation: type in the low 3 bits, axis in bit 3 and the
// number of residues covered in the remaining bits.
type Op uint32

// NewOp returns an operation of type t covering n residues.
func NewOp(t OpType, n int) Op {
	return Op(t) | Op(n)<<4
}

// NewClip returns a clip operation skipping n residues of one sequence.
func NewClip(t OpType, axis Axis, n int) Op {
	return Op(t) | Op(axis)<<3 | Op(n)<<4
}

// Type returns the operation type.
func (o Op) Type() OpType { return OpType(o & 0x7) }

// Axis returns the sequence a clip applies to.
func (o Op) Axis() Axis { return Axis(o>>3) & 0x1 }

// Len returns the number of residues the operation covers.
func (o Op) Len() int { return int(o >> 4) }

// IsClip reports whether the operation is a ClipStart or ClipEnd.
func (o Op) IsClip() bool {
	t := o.Type()
	return t == ClipStart || t == ClipEnd
}

// Consumes returns how many residues of x and y the operation steps over.
func (o Op) Consumes() (dx, dy int) {
	switch o.Type() {
	case Match, Subst:
		return 1, 1
	case Delete:
		return 1, 0
	case Insert:
		return 0, 1
	case ClipStart, ClipEnd:
		if o.Axis() == AxisX {
			return o.Len(), 0
		}
		return 0, o.Len()
	}
	return 0, 0
}

func (o Op) String() string {
	if o.IsClip() {
		return fmt.Sprintf("%s(%s,%d)", o.Type(), o.Axis(), o.Len())
	}
	return o.Type().String()
}

var (
	opMatch  = NewOp(Match, 1)
	opSubst  = NewOp(Subst, 1)
	opDelete = NewOp(Delete, 1)
	opInsert = NewOp(Insert, 1)
)
