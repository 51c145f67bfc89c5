package dvi

import (
	"github.com/mrklie/dvious/dvierr"
	"github.com/mrklie/dvious/internal/byteio"
)

// Disassemble decodes buf front-to-back into an ordered sequence of
// opcodes. It processes the entire buffer on well-formed input and returns
// the first error encountered on malformed input (IndexOutOfBounds from
// the underlying reader, or UnknownOpcode for a leading byte in the
// reserved 250..255 range).
func Disassemble(buf []byte) ([]Opcode, error) {
	r := byteio.New(buf)
	d := &disassembler{r: r}

	var ops []Opcode
	for r.HasMore() {
		op, err := d.next()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		d.idx++
	}
	return ops, nil
}

// disassembler carries the two running back-reference anchors across the
// single forward pass: the instruction index of the most recently emitted
// Bop and Post. The file's own back-pointers are byte offsets; these
// anchors let Post/PostPost carry instruction indices instead.
type disassembler struct {
	r        *byteio.Reader
	idx      int
	lastBop  *int
	lastPost *int
}

func (d *disassembler) next() (Opcode, error) {
	b, err := d.r.ReadU8()
	if err != nil {
		return Opcode{}, err
	}

	switch {
	case b <= 127:
		return Opcode{Tag: OpSet, C: int32(b)}, nil

	case b >= 128 && b <= 131:
		c, err := readIndexOperand(d.r, int(b-128)+1)
		if err != nil {
			return Opcode{}, err
		}
		return Opcode{Tag: OpSet, C: c}, nil

	case b == 132:
		return d.readRule(OpSetRule)

	case b >= 133 && b <= 136:
		c, err := readIndexOperand(d.r, int(b-133)+1)
		if err != nil {
			return Opcode{}, err
		}
		return Opcode{Tag: OpPut, C: c}, nil

	case b == 137:
		return d.readRule(OpPutRule)

	case b == 138:
		return Opcode{Tag: OpNop}, nil

	case b == 139:
		return d.readBop()

	case b == 140:
		return Opcode{Tag: OpEop}, nil
	case b == 141:
		return Opcode{Tag: OpPush}, nil
	case b == 142:
		return Opcode{Tag: OpPop}, nil

	case b >= 143 && b <= 146:
		v, err := d.r.ReadSigned(int(b-143) + 1)
		if err != nil {
			return Opcode{}, err
		}
		return Opcode{Tag: OpRight, B: v}, nil

	case b == 147:
		return Opcode{Tag: OpW0}, nil
	case b >= 148 && b <= 151:
		v, err := d.r.ReadSigned(int(b-148) + 1)
		if err != nil {
			return Opcode{}, err
		}
		return Opcode{Tag: OpW, B: v}, nil

	case b == 152:
		return Opcode{Tag: OpX0}, nil
	case b >= 153 && b <= 156:
		v, err := d.r.ReadSigned(int(b-153) + 1)
		if err != nil {
			return Opcode{}, err
		}
		return Opcode{Tag: OpX, B: v}, nil

	case b >= 157 && b <= 160:
		v, err := d.r.ReadSigned(int(b-157) + 1)
		if err != nil {
			return Opcode{}, err
		}
		return Opcode{Tag: OpDown, A: v}, nil

	case b == 161:
		return Opcode{Tag: OpY0}, nil
	case b >= 162 && b <= 165:
		v, err := d.r.ReadSigned(int(b-162) + 1)
		if err != nil {
			return Opcode{}, err
		}
		return Opcode{Tag: OpY, A: v}, nil

	case b == 166:
		return Opcode{Tag: OpZ0}, nil
	case b >= 167 && b <= 170:
		v, err := d.r.ReadSigned(int(b-167) + 1)
		if err != nil {
			return Opcode{}, err
		}
		return Opcode{Tag: OpZ, A: v}, nil

	case b >= 171 && b <= 234:
		return Opcode{Tag: OpFnt, FontNum: int32(b)}, nil

	case b >= 235 && b <= 238:
		v, err := readIndexOperand(d.r, int(b-235)+1)
		if err != nil {
			return Opcode{}, err
		}
		return Opcode{Tag: OpFnt, FontNum: v}, nil

	case b >= 239 && b <= 242:
		return d.readXxx(int(b-239) + 1)

	case b >= 243 && b <= 246:
		return d.readFntDef(int(b-243) + 1)

	case b == 247:
		return d.readPre()

	case b == 248:
		return d.readPost()

	case b == 249:
		return d.readPostPost()

	default:
		return Opcode{}, dvierr.UnknownOp(b)
	}
}

// readIndexOperand reads a Set/Put/Fnt/FntDef index operand at the given
// width: widths 1-3 zero-extend, width 4 is read as a signed i32 (matching
// the on-disk set4/put4/fnt4 encoding — the numeric effect on a valid,
// nonnegative index is identical either way).
func readIndexOperand(r *byteio.Reader, width int) (int32, error) {
	if width < 4 {
		v, err := r.ReadUnsigned(width)
		return int32(v), err
	}
	return r.ReadI32()
}

func (d *disassembler) readRule(tag Tag) (Opcode, error) {
	a, err := d.r.ReadI32()
	if err != nil {
		return Opcode{}, err
	}
	b, err := d.r.ReadI32()
	if err != nil {
		return Opcode{}, err
	}
	return Opcode{Tag: tag, A: a, B: b}, nil
}

func (d *disassembler) readBop() (Opcode, error) {
	var pages [10]int32
	for i := range pages {
		v, err := d.r.ReadI32()
		if err != nil {
			return Opcode{}, err
		}
		pages[i] = v
	}
	back, err := d.r.ReadI32()
	if err != nil {
		return Opcode{}, err
	}
	idx := d.idx
	d.lastBop = &idx
	return Opcode{Tag: OpBop, BopPages: pages, Back: back}, nil
}

func (d *disassembler) readXxx(width int) (Opcode, error) {
	k, err := d.r.ReadUnsigned(width)
	if err != nil {
		return Opcode{}, err
	}
	x, err := d.r.ReadBytes(int(k))
	if err != nil {
		return Opcode{}, err
	}
	return Opcode{Tag: OpXxx, Count: k, Payload: x}, nil
}

func (d *disassembler) readFntDef(width int) (Opcode, error) {
	k, err := readIndexOperand(d.r, width)
	if err != nil {
		return Opcode{}, err
	}
	c, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	s, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	dd, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	a, err := d.r.ReadU8()
	if err != nil {
		return Opcode{}, err
	}
	l, err := d.r.ReadU8()
	if err != nil {
		return Opcode{}, err
	}
	n, err := d.r.ReadBytes(int(a) + int(l))
	if err != nil {
		return Opcode{}, err
	}
	return Opcode{
		Tag: OpFntDef, FontNum: k,
		Checksum: c, Scaled: s, Design: dd,
		AreaLen: a, NameLen: l, Name: n,
	}, nil
}

func (d *disassembler) readPre() (Opcode, error) {
	i, err := d.r.ReadU8()
	if err != nil {
		return Opcode{}, err
	}
	num, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	den, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	mag, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	k, err := d.r.ReadU8()
	if err != nil {
		return Opcode{}, err
	}
	x, err := d.r.ReadBytes(int(k))
	if err != nil {
		return Opcode{}, err
	}
	return Opcode{
		Tag: OpPre, FormatID: i,
		Num: num, Den: den, Mag: mag,
		Count: uint32(k), Payload: x,
	}, nil
}

func (d *disassembler) readPost() (Opcode, error) {
	// The on-disk back-pointer to the last Bop is read but discarded: the
	// decoder stamps in its own instruction-index anchor instead.
	if _, err := d.r.ReadI32(); err != nil {
		return Opcode{}, err
	}
	p := d.lastBop
	idx := d.idx
	d.lastPost = &idx

	num, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	den, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	mag, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	l, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	u, err := d.r.ReadU32()
	if err != nil {
		return Opcode{}, err
	}
	s, err := d.r.ReadU16()
	if err != nil {
		return Opcode{}, err
	}
	t, err := d.r.ReadU16()
	if err != nil {
		return Opcode{}, err
	}
	return Opcode{
		Tag: OpPost, P: p,
		Num: num, Den: den, Mag: mag, L: l, U: u, S: s, T: t,
	}, nil
}

func (d *disassembler) readPostPost() (Opcode, error) {
	if _, err := d.r.ReadI32(); err != nil {
		return Opcode{}, err
	}
	i, err := d.r.ReadU8()
	if err != nil {
		return Opcode{}, err
	}
	q := d.lastPost

	for d.r.HasMore() {
		b, err := d.r.PeekU8()
		if err != nil || b != 0xDF {
			break
		}
		if _, err := d.r.ReadU8(); err != nil {
			return Opcode{}, err
		}
	}

	return Opcode{Tag: OpPostPost, Q: q, FormatID: i}, nil
}
