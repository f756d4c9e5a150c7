package fixtures

import (
	"hash/fnv"
	"math/bits"
	"strings"

	"golang.org/x/net/html"
)

// DriftThreshold is the largest fingerprint distance still treated as the
// same page layout.
const DriftThreshold = 10

// LayoutFingerprint computes a 64-bit SimHash of the page structure: the
// sequence of opening tags with their classes, ignoring text and all other
// attributes. Two recordings of the same page type stay close even when the
// data in them changes.
func LayoutFingerprint(markup string) uint64 {
	tokens := layoutTokens(markup)
	if len(tokens) == 0 {
		return 0
	}
	if shingles := makeShingles(tokens, 3); len(shingles) > 0 {
		tokens = shingles
	}
	return simhash(tokens)
}

// LayoutDistance returns the Hamming distance between two fingerprints.
func LayoutDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Drifted reports whether two pages differ in layout beyond DriftThreshold.
func Drifted(stored, live string) bool {
	return LayoutDistance(LayoutFingerprint(stored), LayoutFingerprint(live)) > DriftThreshold
}

func simhash(tokens []string) uint64 {
	var vector [64]int
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()
		for i := 0; i < 64; i++ {
			if sum&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}
	var fp uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

// layoutTokens walks markup with the tokenizer and collects "tag.class1.class2"
// for every opening tag, in order.
func layoutTokens(markup string) []string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var tokens []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return tokens
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tok := string(name)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "class" {
					for _, c := range strings.Fields(string(val)) {
						tok += "." + c
					}
				}
			}
			tokens = append(tokens, tok)
		}
	}
}

func makeShingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		out = append(out, strings.Join(tokens[i:i+n], "_"))
	}
	return out
}
