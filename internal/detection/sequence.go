package detection

import (
	"math"
	"sort"
)

// Unbounded is the default sequence length: every key after the offset.
const Unbounded = math.MaxInt

// Sequence returns the image keys of set in ascending byte order, restricted
// to [offset, offset+length) of that order and clipped to the keys available.
// An offset past the end yields an empty slice. A length <= 0 means Unbounded.
func Sequence(set Set, offset, length int) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if offset < 0 {
		offset = 0
	}
	if offset >= len(keys) {
		return []string{}
	}
	if length <= 0 {
		length = Unbounded
	}

	end := len(keys)
	if length < end-offset {
		end = offset + length
	}
	return keys[offset:end]
}
