package tfm

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/mrklie/dvious/dvierr"
	"github.com/mrklie/dvious/internal/byteio"
	"github.com/mrklie/dvious/internal/fixed"
)

// preamble is the twelve u16 words at the front of every TFM file.
type preamble struct {
	lf, lh, bc, ec uint16
	nw, nh, nd, ni uint16
	nl, nk, ne, np uint16
}

// Read decodes buf into a Metric, performing both preamble cross-validation
// passes before parsing the header and sub-tables. The buffer must be
// exactly consumed; trailing bytes are a parse error.
func Read(buf []byte) (*Metric, error) {
	r := byteio.New(buf)

	p, err := readPreamble(r)
	if err != nil {
		return nil, err
	}
	if err := p.validate(len(buf)); err != nil {
		return nil, err
	}

	header, err := readHeader(r, p.lh)
	if err != nil {
		return nil, err
	}

	charInfo, err := readCharInfo(r, p.bc, p.ec)
	if err != nil {
		return nil, err
	}

	width, err := readFixwords(r, int(p.nw))
	if err != nil {
		return nil, err
	}
	height, err := readFixwords(r, int(p.nh))
	if err != nil {
		return nil, err
	}
	depth, err := readFixwords(r, int(p.nd))
	if err != nil {
		return nil, err
	}
	italic, err := readFixwords(r, int(p.ni))
	if err != nil {
		return nil, err
	}
	ligKern, err := readLigKern(r, int(p.nl))
	if err != nil {
		return nil, err
	}
	kern, err := readFixwords(r, int(p.nk))
	if err != nil {
		return nil, err
	}
	extension, err := readExtension(r, int(p.ne))
	if err != nil {
		return nil, err
	}
	param, err := readFixwords(r, int(p.np))
	if err != nil {
		return nil, err
	}

	if r.HasMore() {
		return nil, dvierr.TfmParsef("trailing %d byte(s) after parameter table", r.Len()-r.Position())
	}

	return &Metric{
		Header:    *header,
		BC:        byte(p.bc),
		EC:        byte(p.ec),
		CharInfo:  charInfo,
		Width:     width,
		Height:    height,
		Depth:     depth,
		Italic:    italic,
		LigKern:   ligKern,
		Kern:      kern,
		Extension: extension,
		Param:     param,
	}, nil
}

func readPreamble(r *byteio.Reader) (preamble, error) {
	words := make([]uint16, 12)
	for i := range words {
		v, err := r.ReadU16()
		if err != nil {
			return preamble{}, err
		}
		words[i] = v
	}
	return preamble{
		lf: words[0], lh: words[1], bc: words[2], ec: words[3],
		nw: words[4], nh: words[5], nd: words[6], ni: words[7],
		nl: words[8], nk: words[9], ne: words[10], np: words[11],
	}, nil
}

// validate runs the two cross-checks the format carries redundantly: the
// declared file length against the actual buffer length, and the declared
// file length against the sum of the preamble's own sub-table lengths.
func (p preamble) validate(bufLen int) error {
	if int(p.lf)*4 != bufLen {
		return dvierr.TfmParsef("declared length %d words (%d bytes) does not match buffer length %d", p.lf, int(p.lf)*4, bufLen)
	}
	if p.bc > p.ec {
		return dvierr.TfmParsef("bc (%d) > ec (%d)", p.bc, p.ec)
	}
	if p.ec > 255 {
		return dvierr.TfmParsef("ec (%d) exceeds the maximum character code 255", p.ec)
	}
	charWords := uint32(p.ec) - uint32(p.bc) + 1
	sum := uint32(6) + uint32(p.lh) + charWords +
		uint32(p.nw) + uint32(p.nh) + uint32(p.nd) + uint32(p.ni) +
		uint32(p.nl) + uint32(p.nk) + uint32(p.ne) + uint32(p.np)
	if uint32(p.lf) != sum {
		return dvierr.TfmParsef("declared length %d words does not match sub-table sum %d", p.lf, sum)
	}
	return nil
}

// readHeader decodes the lh-word header: a fixed checksum/design-size
// prefix, then an encoding field, font-identifier field and face byte, each
// only present if the field before it was read and the declared header
// length still has room, with any leftover captured verbatim into Misc.
func readHeader(r *byteio.Reader, lh uint16) (*Header, error) {
	remaining := int(lh)
	if remaining < 2 {
		return nil, dvierr.TfmParsef("header too short for checksum/design_size: lh=%d", lh)
	}

	checksum, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	designRaw, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	remaining -= 2

	h := &Header{Checksum: checksum, DesignSize: fixed.Word(designRaw)}

	if remaining >= 10 {
		s, err := readPascalString(r, 39)
		if err != nil {
			return nil, err
		}
		h.Encoding = &s
		remaining -= 10
	}

	if h.Encoding != nil && remaining >= 5 {
		s, err := readPascalString(r, 19)
		if err != nil {
			return nil, err
		}
		h.FontIdentifier = &s
		remaining -= 5
	}

	if h.FontIdentifier != nil && remaining >= 1 {
		if _, err := r.ReadU8(); err != nil {
			return nil, err
		}
		if _, err := r.ReadU16(); err != nil {
			return nil, err
		}
		face, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		h.Face = &face
		remaining--
	}

	if remaining > 0 {
		misc, err := r.ReadBytes(remaining * 4)
		if err != nil {
			return nil, err
		}
		h.Misc = misc
	}

	return h, nil
}

// readPascalString reads a one-byte length prefix (rejecting lengths above
// max), that many bytes as UTF-8, then pads out to exactly (max+1) bytes
// total so the caller's word budget is consumed in full.
func readPascalString(r *byteio.Reader, max int) (string, error) {
	n, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	if int(n) > max {
		return "", dvierr.TfmParsef("length-prefixed string length %d exceeds maximum %d", n, max)
	}
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", dvierr.Utf8Error(nil)
	}
	if err := r.Skip(max - int(n)); err != nil {
		return "", err
	}
	// TFM predates Unicode; most encoding/font-identifier fields are plain
	// ASCII, but field values copied from modern font tooling can carry
	// decomposed accents. Normalize so two metrically-identical fonts don't
	// compare unequal over a codepoint-ordering difference.
	return norm.NFC.String(string(raw)), nil
}

func readCharInfo(r *byteio.Reader, bc, ec uint16) (map[byte]CharInfo, error) {
	m := make(map[byte]CharInfo)
	for c := int(bc); c <= int(ec); c++ {
		b0, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		b1, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		b2, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		b3, err := r.ReadU8()
		if err != nil {
			return nil, err
		}

		tagValue := b2 & 0b11
		var tag CharInfoTag
		switch tagValue {
		case 0:
			tag = TagNone
		case 1:
			tag = TagLigature
		case 2:
			tag = TagList
		case 3:
			tag = TagExtensible
		default:
			return nil, dvierr.TfmParsef("impossible char-info tag value %d", tagValue)
		}

		m[byte(c)] = CharInfo{
			WidthIndex:  b0,
			HeightIndex: (b1 >> 4) * 16,
			DepthIndex:  b1 & 0x0F,
			ItalicIndex: (b2 >> 2) * 4,
			Tag:         tag,
			Remainder:   b3,
		}
	}
	return m, nil
}

func readFixwords(r *byteio.Reader, n int) ([]fixed.Word, error) {
	out := make([]fixed.Word, n)
	for i := range out {
		v, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = fixed.Word(v)
	}
	return out, nil
}

func readLigKern(r *byteio.Reader, n int) ([]LigKernInstr, error) {
	out := make([]LigKernInstr, n)
	for i := range out {
		skip, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		next, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		op, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		rem, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		out[i] = LigKernInstr{Skip: skip, Next: next, Op: op, Remainder: rem}
	}
	return out, nil
}

func readExtension(r *byteio.Reader, n int) ([]ExtensibleRecipe, error) {
	out := make([]ExtensibleRecipe, n)
	for i := range out {
		top, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		mid, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		bot, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		rep, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		out[i] = ExtensibleRecipe{Top: top, Mid: mid, Bot: bot, Rep: rep}
	}
	return out, nil
}
