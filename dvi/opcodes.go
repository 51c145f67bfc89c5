// Package dvi disassembles DVI (DeVice Independent) byte streams into an
// ordered sequence of typed opcodes.
package dvi

import "fmt"

// Tag identifies which DVI opcode an Opcode value represents. Opcodes that
// differ only by on-disk operand width (set1..set4, right1..right4, ...)
// share one Tag: the width is plumbing consumed during decoding, not part
// of the decoded meaning.
type Tag int

const (
	// OpSet unifies opcodes 0-127 (implicit character) and set1..set4.
	OpSet Tag = iota
	OpSetRule
	// OpPut unifies put1..put4.
	OpPut
	OpPutRule
	OpNop
	OpBop
	OpEop
	OpPush
	OpPop
	// OpRight unifies right1..right4.
	OpRight
	OpW0
	// OpW unifies w1..w4.
	OpW
	OpX0
	// OpX unifies x1..x4.
	OpX
	// OpDown unifies down1..down4.
	OpDown
	OpY0
	// OpY unifies y1..y4.
	OpY
	OpZ0
	// OpZ unifies z1..z4.
	OpZ
	// OpFnt unifies the implicit fnt_num_0..63 range and fnt1..fnt4.
	OpFnt
	OpXxx
	OpFntDef
	OpPre
	OpPost
	OpPostPost
)

func (t Tag) String() string {
	switch t {
	case OpSet:
		return "Set"
	case OpSetRule:
		return "SetRule"
	case OpPut:
		return "Put"
	case OpPutRule:
		return "PutRule"
	case OpNop:
		return "Nop"
	case OpBop:
		return "Bop"
	case OpEop:
		return "Eop"
	case OpPush:
		return "Push"
	case OpPop:
		return "Pop"
	case OpRight:
		return "Right"
	case OpW0:
		return "W0"
	case OpW:
		return "W"
	case OpX0:
		return "X0"
	case OpX:
		return "X"
	case OpDown:
		return "Down"
	case OpY0:
		return "Y0"
	case OpY:
		return "Y"
	case OpZ0:
		return "Z0"
	case OpZ:
		return "Z"
	case OpFnt:
		return "Fnt"
	case OpXxx:
		return "Xxx"
	case OpFntDef:
		return "FntDef"
	case OpPre:
		return "Pre"
	case OpPost:
		return "Post"
	case OpPostPost:
		return "PostPost"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// Opcode is one decoded DVI instruction. It is a single tagged struct
// rather than one Go type per on-disk variant: downstream consumers (the
// interpreter skeleton in dvi/interp, the CLI) want the decoded value and
// a Tag to switch on, not 34 distinct types to type-assert between. Only
// the fields documented for a given Tag are meaningful; others are zero.
type Opcode struct {
	Tag Tag

	// C is the Set/Put character code.
	C int32

	// A is the SetRule/PutRule height, or the Down/Y/Z displacement.
	A int32
	// B is the SetRule/PutRule width, or the Right/W/X displacement.
	B int32

	// BopPages holds Bop's c0..c9 page identifiers.
	BopPages [10]int32
	// Back is Bop's raw on-disk back-pointer. It is read but never
	// interpreted: the decoder re-derives back-references from its own
	// instruction counter (see P and Q below).
	Back int32

	// P is, for Tag == OpPost, the instruction index of the most recently
	// emitted Bop, or nil if no Bop preceded it.
	P *int
	// Q is, for Tag == OpPostPost, the instruction index of the most
	// recently emitted Post, or nil if no Post preceded it.
	Q *int

	// FontNum is the font number for OpFnt and OpFntDef.
	FontNum int32
	// Checksum, Scaled, Design, AreaLen, NameLen and Name are FntDef's
	// c, s, d, a, l and n fields respectively.
	Checksum uint32
	Scaled   uint32
	Design   uint32
	AreaLen  byte
	NameLen  byte
	Name     []byte

	// Count is the byte-vector length for OpXxx (k) and OpPre (k).
	Count uint32
	// Payload is OpXxx's x or OpPre's x.
	Payload []byte

	// FormatID is OpPre's i or OpPostPost's i.
	FormatID byte

	// Num, Den and Mag are shared by OpPre and OpPost.
	Num, Den, Mag uint32
	// L and U are OpPost's l and u.
	L, U uint32
	// S and T are OpPost's s and t.
	S, T uint16
}

// String renders an opcode the way the CLI prints it: one tag followed by
// its populated fields, e.g. "Set{c=66}".
func (op Opcode) String() string {
	switch op.Tag {
	case OpSet:
		return fmt.Sprintf("Set{c=%d}", op.C)
	case OpSetRule:
		return fmt.Sprintf("SetRule{a=%d, b=%d}", op.A, op.B)
	case OpPut:
		return fmt.Sprintf("Put{c=%d}", op.C)
	case OpPutRule:
		return fmt.Sprintf("PutRule{a=%d, b=%d}", op.A, op.B)
	case OpNop, OpEop, OpPush, OpPop, OpW0, OpX0, OpY0, OpZ0:
		return op.Tag.String()
	case OpBop:
		return fmt.Sprintf("Bop{c=%v, p=%d}", op.BopPages, op.Back)
	case OpRight:
		return fmt.Sprintf("Right{b=%d}", op.B)
	case OpW:
		return fmt.Sprintf("W{b=%d}", op.B)
	case OpX:
		return fmt.Sprintf("X{b=%d}", op.B)
	case OpDown:
		return fmt.Sprintf("Down{a=%d}", op.A)
	case OpY:
		return fmt.Sprintf("Y{a=%d}", op.A)
	case OpZ:
		return fmt.Sprintf("Z{a=%d}", op.A)
	case OpFnt:
		return fmt.Sprintf("Fnt{k=%d}", op.FontNum)
	case OpXxx:
		return fmt.Sprintf("Xxx{k=%d, x=%v}", op.Count, op.Payload)
	case OpFntDef:
		return fmt.Sprintf("FntDef{k=%d, c=%#x, s=%#x, d=%#x, a=%d, l=%d, n=%v}",
			op.FontNum, op.Checksum, op.Scaled, op.Design, op.AreaLen, op.NameLen, op.Name)
	case OpPre:
		return fmt.Sprintf("Pre{i=%d, num=%d, den=%d, mag=%d, k=%d, x=%v}",
			op.FormatID, op.Num, op.Den, op.Mag, op.Count, op.Payload)
	case OpPost:
		return fmt.Sprintf("Post{p=%s, num=%d, den=%d, mag=%d, l=%d, u=%d, s=%d, t=%d}",
			formatOption(op.P), op.Num, op.Den, op.Mag, op.L, op.U, op.S, op.T)
	case OpPostPost:
		return fmt.Sprintf("PostPost{q=%s, i=%d}", formatOption(op.Q), op.FormatID)
	default:
		return op.Tag.String()
	}
}

func formatOption(p *int) string {
	if p == nil {
		return "None"
	}
	return fmt.Sprintf("%d", *p)
}
