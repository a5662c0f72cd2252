//go:build amd64

// Package simd provides the byte-search primitives used by the literal
// occurrence scanner. The package selects the fastest implementation for the
// running CPU and falls back to pure Go SWAR code elsewhere.
//
// The primary use case is jumping between first-byte candidates while a
// searchable user agent string is scanned for every occurrence of a literal.
package simd

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// CPU feature detection flags set at package initialization.
var (
	// hasAVX2 indicates whether the CPU supports AVX2 instructions (256-bit SIMD).
	// The runtime's IndexByte kernel uses AVX2 when it is available, which beats
	// the SWAR loop once the haystack is a few vectors long.
	hasAVX2 = cpu.X86.HasAVX2
)

// vectorThreshold is the haystack length from which the vectorised kernel
// amortizes its setup cost.
const vectorThreshold = 32

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// On x86-64 with AVX2 and haystacks of at least 32 bytes the runtime's
// vectorised IndexByte kernel is used. Shorter inputs, which are the common
// case for user agents scanned from an offset near their end, use the SWAR
// implementation that has no setup overhead.
//
// Example:
//
//	haystack := []byte("mozilla/5.0 (windows nt 10.0)")
//	pos := simd.Memchr(haystack, '(')
//	// pos == 12
func Memchr(haystack []byte, needle byte) int {
	if len(haystack) == 0 {
		return -1
	}

	if hasAVX2 && len(haystack) >= vectorThreshold {
		return bytes.IndexByte(haystack, needle)
	}

	return memchrGeneric(haystack, needle)
}
