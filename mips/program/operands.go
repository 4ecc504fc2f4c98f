package program

import (
	"fmt"

	"github.com/colorfulnotion/mipssim/simerrors"
)

// WordBits is the width of every encoded line, instruction or data.
const WordBits = 32

// ParseUnsigned returns bits[lo:hi] read as an unsigned base-2 integer.
// Used for register indices, category and opcode fields.
func ParseUnsigned(bits string, lo, hi int) (uint32, error) {
	if lo < 0 || hi > len(bits) || lo >= hi || hi-lo > WordBits {
		return 0, fmt.Errorf("field [%d,%d) of %q: %w", lo, hi, bits, simerrors.ErrMalformedField)
	}
	var v uint32
	for i := lo; i < hi; i++ {
		v <<= 1
		switch bits[i] {
		case '0':
		case '1':
			v |= 1
		default:
			return 0, fmt.Errorf("field [%d,%d) of %q has %q at %d: %w", lo, hi, bits, bits[i], i, simerrors.ErrMalformedField)
		}
	}
	return v, nil
}

// ParseSigned returns bits[lo:hi] read as a two's-complement integer of
// width hi-lo, so a leading 1 yields a negative value.
func ParseSigned(bits string, lo, hi int) (int32, error) {
	v, err := ParseUnsigned(bits, lo, hi)
	if err != nil {
		return 0, err
	}
	return SignExtend(v, hi-lo), nil
}

// SignExtend widens the low n bits of x to a full int32.
func SignExtend(x uint32, n int) int32 {
	if n <= 0 || n >= WordBits {
		return int32(x)
	}
	shift := WordBits - n
	return int32(x<<shift) >> shift
}

// ParseWord checks that line is exactly one 32-digit binary word and returns its bit pattern.
func ParseWord(line string) (uint32, error) {
	if len(line) != WordBits {
		return 0, fmt.Errorf("%q has %d characters: %w", line, len(line), simerrors.ErrMalformedWord)
	}
	return ParseUnsigned(line, 0, WordBits)
}

// ParseData reads a data line as a signed 32-bit two's-complement value.
func ParseData(line string) (int32, error) {
	w, err := ParseWord(line)
	if err != nil {
		return 0, err
	}
	return int32(w), nil
}
