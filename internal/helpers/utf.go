package helpers

import (
	"unicode/utf16"
	"unicode/utf8"
)

// JavaScript strings are sequences of UTF-16 code units and may contain
// unpaired surrogates, so the tree stores string literals as []uint16 and
// converts to Go strings (WTF-8) only at the edges.

func StringToUTF16(text string) []uint16 {
	units := make([]uint16, 0, len(text))
	for _, c := range text {
		units = utf16.AppendRune(units, c)
	}
	return units
}

func UTF16ToString(text []uint16) string {
	buf := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		r := rune(text[i])
		if utf16.IsSurrogate(r) && i+1 < len(text) {
			if pair := utf16.DecodeRune(r, rune(text[i+1])); pair != utf8.RuneError {
				r = pair
				i++
			}
		}
		buf = appendWTF8(buf, r)
	}
	return string(buf)
}

func UTF16EqualsString(text []uint16, str string) bool {
	// A UTF-16 encoding is never longer than the UTF-8 encoding
	if len(text) > len(str) {
		return false
	}
	return UTF16ToString(text) == str
}

// Lone surrogates are written as their three-byte form where "utf8.AppendRune"
// would write U+FFFD. See https://simonsapin.github.io/wtf-8/.
func appendWTF8(buf []byte, r rune) []byte {
	if r >= 0xD800 && r <= 0xDFFF {
		return append(buf, 0xE0|byte(r>>12), 0x80|byte(r>>6)&0x3F, 0x80|byte(r)&0x3F)
	}
	return utf8.AppendRune(buf, r)
}
