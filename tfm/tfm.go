// Package tfm reads TeX Font Metric (TFM) files into a structured font
// metric record with cross-referenced sub-tables.
package tfm

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mrklie/dvious/internal/fixed"
)

// Header is the fixed leading portion of the TFM header, plus whatever
// optional fields fit within the declared header length.
type Header struct {
	Checksum   uint32
	DesignSize fixed.Word

	// Encoding and FontIdentifier are nil when the declared header length
	// was too short to contain them.
	Encoding       *string
	FontIdentifier *string

	// Face is nil unless the header declared at least 18 words.
	Face *byte

	// Misc holds any header bytes beyond the fields above, verbatim.
	Misc []byte
}

// CharInfoTag classifies the auxiliary information attached to a character.
type CharInfoTag int

const (
	TagNone CharInfoTag = iota
	TagLigature
	TagList
	TagExtensible
)

// CharInfo is one entry of the character information table.
type CharInfo struct {
	WidthIndex  byte
	HeightIndex byte
	DepthIndex  byte
	ItalicIndex byte
	Tag         CharInfoTag
	Remainder   byte
}

// LigKernInstr is one entry of the ligature/kern program table.
type LigKernInstr struct {
	Skip      byte
	Next      byte
	Op        byte
	Remainder byte
}

// ExtensibleRecipe is one entry of the extensible character table.
type ExtensibleRecipe struct {
	Top, Mid, Bot, Rep byte
}

// Metric is a fully decoded TFM font, with every sub-table in file order.
type Metric struct {
	Header Header

	// BC and EC are the smallest and largest character codes present in
	// CharInfo (BC <= EC).
	BC, EC byte

	// CharInfo is indexed by character code; only codes in [BC,EC] are
	// populated.
	CharInfo map[byte]CharInfo

	Width     []fixed.Word
	Height    []fixed.Word
	Depth     []fixed.Word
	Italic    []fixed.Word
	LigKern   []LigKernInstr
	Kern      []fixed.Word
	Extension []ExtensibleRecipe
	Param     []fixed.Word
}

// CharWidth returns the design-size-relative width of character c, and
// whether it could be resolved: false when c is not present in the font or
// its width index lies past the end of the Width table.
func (m *Metric) CharWidth(c byte) (fixed.Word, bool) {
	ci, ok := m.CharInfo[c]
	if !ok {
		return 0, false
	}
	idx := int(ci.WidthIndex)
	if idx >= len(m.Width) {
		return 0, false
	}
	return m.Width[idx], true
}

// Chars returns every character code present in the font, in ascending
// order. CharInfo is a map, so callers who need a stable iteration order
// (the CLI summary, test fixtures) go through this instead of ranging over
// the map directly.
func (m *Metric) Chars() []byte {
	codes := maps.Keys(m.CharInfo)
	slices.Sort(codes)
	return codes
}
