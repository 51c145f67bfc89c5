// Package fixed implements the small numeric types used on the wire by DVI
// and TFM files: TeX's fixed-point Fixword and the 24-bit integers needed to
// make the DVI operand-width dispatch generic over N ∈ {1,2,3,4}.
package fixed

import "strconv"

// wordScale is 2^-20, the value of the least significant bit of a Fixword.
const wordScale = 1.0 / (1 << 20)

// Word is TeX's Fixword: a signed 32-bit integer on disk, interpreted as
// integer * 2^-20. Its range is [-2048, 2048 - 2^-20].
type Word int32

// Float64 converts a Word to its real value.
func (w Word) Float64() float64 {
	return float64(w) * wordScale
}

func (w Word) String() string {
	return strconv.FormatFloat(w.Float64(), 'g', -1, 64)
}

// U24 is an unsigned 24-bit integer, stored widened to 32 bits. It exists
// solely so the DVI decoder can read operands of width 1, 2, 3 or 4 through
// one generic code path.
type U24 uint32

// Uint32 widens u to an unsigned 32-bit integer.
func (u U24) Uint32() uint32 {
	return uint32(u)
}

// I24 is a signed 24-bit integer, stored widened to 32 bits with the sign
// carried in the top bit of the most significant on-wire byte.
type I24 int32

// Int32 widens i to a signed 32-bit integer.
func (i I24) Int32() int32 {
	return int32(i)
}
