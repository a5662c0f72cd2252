//go:build !amd64

// Package simd provides the byte-search primitives used by the literal
// occurrence scanner. Off amd64 every primitive is the pure Go SWAR code.
package simd

// Memchr returns the index of the first needle byte in haystack, or -1.
// User agents are short enough that the SWAR loop in memchrGeneric is used
// for every length.
func Memchr(haystack []byte, needle byte) int {
	return memchrGeneric(haystack, needle)
}
