package strata

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// SequenceLength defines the encoded length of a sequence.
const SequenceLength = 20

// EncodeSequence will encode a sequence. The zero padding keeps the byte order
// of encoded sequences equal to their numeric order.
func EncodeSequence(s uint64) []byte {
	return []byte(fmt.Sprintf("%020d", s))
}

// DecodeSequence will decode a sequence.
func DecodeSequence(key []byte) (uint64, error) {
	// check length
	if len(key) != SequenceLength {
		return 0, errors.Wrapf(ErrCorrupted, "sequence %q has length %d", key, len(key))
	}

	// parse
	s, err := strconv.ParseUint(string(key), 10, 64)
	if err != nil {
		return 0, errors.Wrap(ErrCorrupted, err.Error())
	}

	return s, nil
}
