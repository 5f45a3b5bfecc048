package analyzer

import "strings"

// Tokenize lowercases text and splits it on whitespace. Punctuation stays
// attached to its word, so "seo." and "seo" are different tokens.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// EstimateSyllables counts maximal runs of vowels (a, e, i, o, u, y) in word.
// A word without vowels yields 0.
func EstimateSyllables(word string) int {
	count := 0
	inRun := false
	for _, r := range strings.ToLower(word) {
		if isVowel(r) {
			if !inRun {
				count++
			}
			inRun = true
			continue
		}
		inRun = false
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// countSentences counts the fragments between runs of '.', '!' or '?' that
// contain something other than whitespace. Floored at 1.
func countSentences(text string) int {
	count := 0
	for _, fragment := range strings.FieldsFunc(text, isSentenceTerminator) {
		if strings.TrimSpace(fragment) != "" {
			count++
		}
	}
	return max(1, count)
}

// Readability applies the Flesch Reading Ease formula to the simplified
// whitespace tokenization. The result is unbounded: empty text scores
// 206.835 - 1.015 and very dense text goes negative.
func Readability(text string) float64 {
	words := strings.Fields(text)

	syllables := 0
	for _, w := range words {
		syllables += EstimateSyllables(w)
	}

	numSentences := float64(countSentences(text))
	numWords := float64(max(1, len(words)))

	return fleschBase -
		fleschSentenceWeight*(numWords/numSentences) -
		fleschSyllableWeight*(float64(syllables)/numWords)
}

// KeywordDensity returns the percentage of words that exactly equal keyword,
// compared case-insensitively. Matching is per token, so a multi-word keyword
// never matches. Empty text yields 0.
func KeywordDensity(text, keyword string) float64 {
	words := Tokenize(text)
	if len(words) == 0 {
		return 0.0
	}

	keyword = strings.ToLower(keyword)
	count := 0
	for _, w := range words {
		if w == keyword {
			count++
		}
	}
	return float64(count) / float64(len(words)) * 100
}
