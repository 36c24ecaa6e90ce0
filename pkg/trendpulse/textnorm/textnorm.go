// Package textnorm provides the canonical text form, stable IDs, and
// language classification used across the engine.
//
// Design principles:
//   - Deterministic: same input, same output, every run and every process
//   - Bounded: single rune walk, no regex engine, no backtracking
//   - Total: any string (empty, emoji-only, megabytes of punctuation) yields
//     a well-defined result, never an error
package textnorm

import (
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Language codes returned by DetectLanguage.
const (
	LangChinese = "zh"
	LangEnglish = "en"
	LangUnknown = "unknown"
)

// stableIDPrefix is how many leading runes feed the stable hash. Inputs that
// share their first 256 runes share an ID; an accepted tradeoff so very long
// titles keep stable IDs across minor tail edits.
const stableIDPrefix = 256

// Normalize reduces text to its comparison form: Unicode letters of any
// script (Han, Latin, Cyrillic, Hangul, kana, ...) and digits survive,
// case-folded; whitespace, punctuation, symbols, and emoji are dropped
// with no placeholder.
//
// Examples:
//   - Normalize("Hello World") -> "helloworld"
//   - Normalize("你好, world!") -> "你好world"
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// StableID returns a deterministic non-cryptographic ID for the text:
// FNV-1a over the first 256 runes, printed as lowercase hex. No leading-zero
// padding, so output length varies with the hash value.
func StableID(text string) string {
	h := fnv.New32a()
	var buf [utf8.UTFMax]byte
	n := 0
	for _, r := range text {
		if n >= stableIDPrefix {
			break
		}
		h.Write(buf[:utf8.EncodeRune(buf[:], r)])
		n++
	}
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}

// DetectLanguage classifies text as "zh", "en", or "unknown". Any Han rune
// wins over co-occurring Latin letters; a Latin letter with no Han runes is
// English; digits, symbols, whitespace, and empty text are unknown.
func DetectLanguage(text string) string {
	hasLatin := false
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return LangChinese
		}
		if !hasLatin && unicode.Is(unicode.Latin, r) {
			hasLatin = true
		}
	}
	if hasLatin {
		return LangEnglish
	}
	return LangUnknown
}
