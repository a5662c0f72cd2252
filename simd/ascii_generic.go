package simd

import (
	"encoding/binary"
)

// IsASCII checks if all bytes in the slice are ASCII (< 0x80).
//
// User agents are almost always ASCII, which lets the query path lowercase
// them in place instead of going through Unicode case mapping.
//
// Example:
//
//	if simd.IsASCII(ua) {
//	    simd.LowerASCII(ua)
//	}
func IsASCII(data []byte) bool {
	return isASCIIGeneric(data)
}

// isASCIIGeneric implements ASCII detection using SWAR: the high bit of 8
// bytes is tested at once by masking a little-endian uint64 with 0x80 in
// every byte.
func isASCIIGeneric(data []byte) bool {
	dataLen := len(data)
	if dataLen == 0 {
		return true
	}

	if dataLen < 8 {
		for i := 0; i < dataLen; i++ {
			if data[i] >= 0x80 {
				return false
			}
		}
		return true
	}

	const hi8 = uint64(0x8080808080808080)

	idx := 0
	for idx+8 <= dataLen {
		if binary.LittleEndian.Uint64(data[idx:])&hi8 != 0 {
			return false
		}
		idx += 8
	}

	for idx < dataLen {
		if data[idx] >= 0x80 {
			return false
		}
		idx++
	}

	return true
}

// LowerASCII lowercases the ASCII letters of data in place.
// Bytes outside 'A'..'Z' are left untouched.
func LowerASCII(data []byte) {
	for i, b := range data {
		if b-'A' < 26 {
			data[i] = b + ('a' - 'A')
		}
	}
}
