package plaintext

import "strings"

// Bits is a sequence of bits.
type Bits []bool

// Bytes packs the bits into bytes. Bit i is stored in byte i/8 at position
// i%8, the last byte is padded with zeroes.
func (b Bits) Bytes() []byte {
	// prepare buffer
	buf := make([]byte, (len(b)+7)/8)

	// set bits
	for i, bit := range b {
		if bit {
			buf[i/8] |= 1 << uint(i%8)
		}
	}

	return buf
}

// Equal returns whether both sequences are identical.
func (b Bits) Equal(o Bits) bool {
	// check length
	if len(b) != len(o) {
		return false
	}

	// compare bits
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}

	return true
}

// String returns the bits as a string of zeroes and ones.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// BytesToBits unpacks bytes into bits, least significant bit of each byte
// first.
func BytesToBits(buf []byte) Bits {
	bits := make(Bits, 0, len(buf)*8)
	for _, c := range buf {
		for i := 0; i < 8; i++ {
			bits = append(bits, c&(1<<uint(i)) != 0)
		}
	}

	return bits
}

func appendUint(dst Bits, v uint64, width int, e Endianness) Bits {
	// big-endian
	if e == BigEndian {
		for i := width - 1; i >= 0; i-- {
			dst = append(dst, v&(1<<uint(i)) != 0)
		}

		return dst
	}

	// little-endian
	for i := 0; i < width; i++ {
		dst = append(dst, v&(1<<uint(i)) != 0)
	}

	return dst
}

func appendOrdered(dst Bits, le Bits, e Endianness) Bits {
	// little-endian
	if e != BigEndian {
		return append(dst, le...)
	}

	// big-endian is the reverse
	for i := len(le) - 1; i >= 0; i-- {
		dst = append(dst, le[i])
	}

	return dst
}
