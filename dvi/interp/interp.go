// Package interp is a skeleton DVI interpreter: it tracks the register
// frame and font-selection state a real typesetting engine would need, and
// replays an opcode sequence into a trace of cursor positions. It does not
// compute glyph layout (hinting, kerning program execution, rule painting)
// — those remain out of scope, same as in the source this was distilled
// from.
package interp

import (
	"github.com/mrklie/dvious/dvi"
	"github.com/mrklie/dvious/dvierr"
	"github.com/mrklie/dvious/tfm"
)

// RegisterFrame is the six DVI registers a Push/Pop pair saves and
// restores. H and V are the cursor position in scaled points; W, X, Y, Z
// are the "remembered displacement" registers the W/X/Y/Z family reads
// from and writes to.
type RegisterFrame struct {
	H, V       int64
	W, X, Y, Z int64
}

// Point is one placement event: the cursor position at the moment a Set,
// Put, SetRule or PutRule was executed, and the character code placed
// there (0 for a rule).
type Point struct {
	H, V int64
	Char int32
}

// Trace is everything a caller can observe about a completed run: the
// sequence of glyph placements and the final register frame.
type Trace struct {
	Points []Point
	Final  RegisterFrame
}

// Interp replays a disassembled DVI instruction stream. It is single-use,
// matching the Disassembler and tfm.Read lifecycle: construct, call Run
// once, discard.
type Interp struct {
	registers RegisterFrame
	stack     []RegisterFrame
	fontNum   uint32
	fonts     map[uint32]*tfm.Metric
}

// New builds an interpreter over the given font table, keyed by the font
// number assigned via FntDef/Fnt.
func New(fonts map[uint32]*tfm.Metric) *Interp {
	return &Interp{fonts: fonts}
}

// Run replays ops against the interpreter's register frame, returning the
// resulting trace. The only error is a Pop with an empty register stack; a
// Set under an unknown font or character advances H by zero.
func (ip *Interp) Run(ops []dvi.Opcode) (Trace, error) {
	var trace Trace

	for _, op := range ops {
		switch op.Tag {
		case dvi.OpSet:
			trace.Points = append(trace.Points, Point{H: ip.registers.H, V: ip.registers.V, Char: op.C})
			ip.registers.H += ip.charWidth(op.C)

		case dvi.OpSetRule:
			trace.Points = append(trace.Points, Point{H: ip.registers.H, V: ip.registers.V})
			ip.registers.H += int64(op.B)

		case dvi.OpPut:
			trace.Points = append(trace.Points, Point{H: ip.registers.H, V: ip.registers.V, Char: op.C})

		case dvi.OpPutRule:
			trace.Points = append(trace.Points, Point{H: ip.registers.H, V: ip.registers.V})

		case dvi.OpNop, dvi.OpEop:
			// no register effect

		case dvi.OpBop:
			ip.registers = RegisterFrame{}
			ip.stack = ip.stack[:0]

		case dvi.OpPush:
			ip.stack = append(ip.stack, ip.registers)

		case dvi.OpPop:
			if len(ip.stack) == 0 {
				return trace, dvierr.TfmParsef("pop with empty register stack")
			}
			ip.registers = ip.stack[len(ip.stack)-1]
			ip.stack = ip.stack[:len(ip.stack)-1]

		case dvi.OpRight:
			ip.registers.H += int64(op.B)
		case dvi.OpW0:
			ip.registers.H += ip.registers.W
		case dvi.OpW:
			ip.registers.W = int64(op.B)
			ip.registers.H += ip.registers.W
		case dvi.OpX0:
			ip.registers.H += ip.registers.X
		case dvi.OpX:
			ip.registers.X = int64(op.B)
			ip.registers.H += ip.registers.X

		case dvi.OpDown:
			ip.registers.V += int64(op.A)
		case dvi.OpY0:
			ip.registers.V += ip.registers.Y
		case dvi.OpY:
			ip.registers.Y = int64(op.A)
			ip.registers.V += ip.registers.Y
		case dvi.OpZ0:
			ip.registers.V += ip.registers.Z
		case dvi.OpZ:
			ip.registers.Z = int64(op.A)
			ip.registers.V += ip.registers.Z

		case dvi.OpFnt:
			ip.fontNum = uint32(op.FontNum)

		case dvi.OpFntDef, dvi.OpXxx, dvi.OpPre, dvi.OpPost, dvi.OpPostPost:
			// no register effect; font/document metadata only
		}
	}

	trace.Final = ip.registers
	return trace, nil
}

// charWidth resolves c's design-size-scaled width under the currently
// selected font, or 0 if the font or character is unknown. A real
// typesetting engine would also apply the font's at-size scale factor
// (FntDef's s/d ratio); that scaling is left undone here.
func (ip *Interp) charWidth(c int32) int64 {
	m, ok := ip.fonts[ip.fontNum]
	if !ok || c < 0 || c > 255 {
		return 0
	}
	w, ok := m.CharWidth(byte(c))
	if !ok {
		return 0
	}
	return int64(w.Float64() * (1 << 20))
}
