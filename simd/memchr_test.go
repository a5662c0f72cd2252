package simd

import (
	"bytes"
	"strings"
	"testing"
)

// TestMemchrBasic tests basic functionality and edge cases
func TestMemchrBasic(t *testing.T) {
	tests := []struct {
		name     string
		haystack []byte
		needle   byte
		want     int
	}{
		{"empty_haystack", []byte{}, 'a', -1},
		{"single_match", []byte{'a'}, 'a', 0},
		{"single_no_match", []byte{'a'}, 'b', -1},
		{"first_position", []byte("hello"), 'h', 0},
		{"middle_position", []byte("hello"), 'l', 2},
		{"last_position", []byte("hello"), 'o', 4},
		{"not_found", []byte("hello"), 'x', -1},
		{"high_byte_0xff", []byte{1, 2, 255, 4}, 255, 2},
		{"user_agent_paren", []byte("mozilla/5.0 (windows nt 10.0; win64; x64)"), '(', 12},
		{"user_agent_missing", []byte("mozilla/5.0 (windows nt 10.0; win64; x64)"), '!', -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Memchr(tt.haystack, tt.needle)
			if got != tt.want {
				t.Errorf("Memchr(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
			}
			if std := bytes.IndexByte(tt.haystack, tt.needle); got != std {
				t.Errorf("Memchr != stdlib: got %d, stdlib %d", got, std)
			}
		})
	}
}

// TestMemchrSizes checks every position across SWAR and vector boundaries.
func TestMemchrSizes(t *testing.T) {
	sizes := []int{1, 7, 8, 9, 15, 16, 17, 31, 32, 33, 64, 65, 200}

	for _, size := range sizes {
		for pos := 0; pos < size; pos++ {
			haystack := bytes.Repeat([]byte{'a'}, size)
			haystack[pos] = 'z'

			if got := Memchr(haystack, 'z'); got != pos {
				t.Errorf("size %d: Memchr = %d, want %d", size, got, pos)
			}
			if got := memchrGeneric(haystack, 'z'); got != pos {
				t.Errorf("size %d: memchrGeneric = %d, want %d", size, got, pos)
			}
		}
	}
}

func TestIsASCII(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"empty", "", true},
		{"short", "abc", true},
		{"user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36", true},
		{"short_non_ascii", "h\xc3\xa9", false},
		{"long_non_ascii_tail", strings.Repeat("a", 40) + "\xc3\xa9", false},
		{"long_non_ascii_head", "\xc3\xa9" + strings.Repeat("a", 40), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsASCII([]byte(tt.data)); got != tt.want {
				t.Errorf("IsASCII(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestLowerASCII(t *testing.T) {
	data := []byte("Mozilla/5.0 (iPhone; CPU iPhone OS 14_4) [@Z`{]")
	LowerASCII(data)

	want := "mozilla/5.0 (iphone; cpu iphone os 14_4) [@z`{]"
	if string(data) != want {
		t.Errorf("LowerASCII = %q, want %q", data, want)
	}
}

// FuzzMemchr performs fuzz testing to find edge cases
func FuzzMemchr(f *testing.F) {
	f.Add([]byte("hello world"), byte('o'))
	f.Add([]byte(""), byte('x'))
	f.Add(make([]byte, 1000), byte(0))

	f.Fuzz(func(t *testing.T, haystack []byte, needle byte) {
		if got, want := Memchr(haystack, needle), bytes.IndexByte(haystack, needle); got != want {
			t.Errorf("Memchr(%v, %v) = %d, want %d", haystack, needle, got, want)
		}
	})
}
