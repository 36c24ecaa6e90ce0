// Package similarity implements the character-bigram Jaccard primitive used
// for near-duplicate title detection.
package similarity

import "github.com/trendops/trendpulse/pkg/trendpulse/textnorm"

// Bigrams returns the set of 2-rune windows over the normalized form of
// text. An empty normalized form yields an empty set. A single-rune
// normalized form yields a singleton set holding that one rune: a deliberate
// deviation from strict bigram semantics so one-character CJK titles still
// compare as non-empty.
func Bigrams(text string) map[string]struct{} {
	runes := []rune(textnorm.Normalize(text))
	set := make(map[string]struct{})
	switch len(runes) {
	case 0:
		return set
	case 1:
		set[string(runes)] = struct{}{}
		return set
	}
	for i := 0; i < len(runes)-1; i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}

// Jaccard computes |A∩B| / |A∪B| in O(|A|+|B|). Two empty sets are defined
// as identical (1); exactly one empty set shares nothing (0). Symmetric by
// construction.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
