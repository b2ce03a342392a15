// Package fragments reassembles data split into checksummed fragments.
package fragments

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
)

// ChecksumLength is the number of decimal digits of a checksum.
const ChecksumLength = 30

var (
	// ErrMissingFragment is returned when the fragment keys do not form a
	// contiguous range.
	ErrMissingFragment = errors.New("fragments: missing fragment")

	// ErrIntegrityCheckFailed is returned when a fragment does not match its
	// checksum.
	ErrIntegrityCheckFailed = errors.New("fragments: data integrity check failed")
)

// checksumModulus is 10^ChecksumLength.
var checksumModulus = new(big.Int).Exp(big.NewInt(10), big.NewInt(ChecksumLength), nil)

// Fragment is a piece of data along with the checksum of its content.
type Fragment struct {
	Data     string
	Checksum string
}

// FragmentError reports the fragment that caused a reconstruction to fail.
// Err is either ErrMissingFragment or ErrIntegrityCheckFailed.
type FragmentError struct {
	Key int
	Err error
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("%s: fragment %d", e.Err, e.Key)
}

func (e *FragmentError) Unwrap() error {
	return e.Err
}

// Checksum returns the checksum of data. The hash h starts at 0 and each code
// point c of data updates it to ((h << 3) + c) mod 10^30. The result is the
// decimal representation of h left-padded with zeros to ChecksumLength
// characters.
func Checksum(data string) string {
	h := new(big.Int)
	c := new(big.Int)
	for _, r := range data {
		h.Lsh(h, 3)
		h.Add(h, c.SetInt64(int64(r)))
		h.Mod(h, checksumModulus)
	}
	digits := h.String()
	return strings.Repeat("0", ChecksumLength-len(digits)) + digits
}

// Verify returns true if checksum is the checksum of data.
func Verify(data string, checksum string) bool {
	return Checksum(data) == checksum
}

// Reconstruct validates the fragments and returns their data concatenated in
// increasing key order. Keys must cover every integer between the smallest
// and the largest key. No fragment at all results in the empty string.
//
// Failures are returned as *FragmentError: ErrMissingFragment for the first
// key absent from the range, ErrIntegrityCheckFailed for the first fragment
// whose data does not match its checksum. The range is checked first.
func Reconstruct(fragments map[int]Fragment) (string, error) {
	keys := make([]int, 0, len(fragments))
	for k := range fragments {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for i := 1; i < len(keys); i++ {
		if keys[i] != keys[i-1]+1 {
			return "", &FragmentError{Key: keys[i-1] + 1, Err: ErrMissingFragment}
		}
	}

	sb := strings.Builder{}
	for _, k := range keys {
		f := fragments[k]
		if !Verify(f.Data, f.Checksum) {
			return "", &FragmentError{Key: k, Err: ErrIntegrityCheckFailed}
		}
		sb.WriteString(f.Data)
	}
	return sb.String(), nil
}

// Split cuts data into fragments of at most size code points each and
// returns them keyed from 1 along with their checksum. It panics if size is
// not positive.
func Split(data string, size int) map[int]Fragment {
	if size <= 0 {
		panic(fmt.Sprintf("fragments: size must be positive, got %d", size))
	}

	runes := []rune(data)
	fragments := make(map[int]Fragment, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		part := string(runes[i:min(i+size, len(runes))])
		fragments[i/size+1] = Fragment{Data: part, Checksum: Checksum(part)}
	}
	return fragments
}
