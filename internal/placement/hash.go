package placement

import "unicode/utf16"

const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// HashCode returns the 32-bit FNV-1a hash of code. Characters are fed as
// UTF-16 code units so the result matches the browser implementation for
// codes outside ASCII.
func HashCode(code string) uint32 {
	h := fnvOffset32
	for _, u := range utf16.Encode([]rune(code)) {
		h ^= uint32(u)
		h *= fnvPrime32
	}
	return h
}
