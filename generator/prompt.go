package generator

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	systemPrompt     = "You are an expert SEO content writer."
	defaultWordLimit = 1000
	minKeywordLength = 2
)

var ErrInvalidRequest = errors.New("invalid generation request")

var wordCounts = map[string]int{
	"short":  500,
	"medium": 1000,
	"long":   1500,
}

var tones = map[string]bool{
	"casual":       true,
	"professional": true,
	"technical":    true,
}

// Request describes one article to generate
type Request struct {
	Keyword string `json:"keyword"`
	Length  string `json:"length"`
	Tone    string `json:"tone"`
}

// Validate checks the keyword length and the allowed length and tone values
func (r Request) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(r.Keyword)) < minKeywordLength {
		return fmt.Errorf("%w: keyword must be at least %d characters", ErrInvalidRequest, minKeywordLength)
	}
	if _, ok := wordCounts[r.Length]; !ok {
		return fmt.Errorf("%w: length must be one of short, medium, long", ErrInvalidRequest)
	}
	if !tones[r.Tone] {
		return fmt.Errorf("%w: tone must be one of casual, professional, technical", ErrInvalidRequest)
	}
	return nil
}

// WordLimit maps a length name to a target word count, 1000 when unknown
func WordLimit(length string) int {
	if n, ok := wordCounts[strings.ToLower(length)]; ok {
		return n
	}
	return defaultWordLimit
}

func BuildPrompt(keyword, tone, length string) string {
	return fmt.Sprintf("Write an SEO-optimized article about '%s'.\n", keyword) +
		fmt.Sprintf("Tone: %s.\n", tone) +
		fmt.Sprintf("Length: %d words.\n", WordLimit(length)) +
		"Include a strong title, an engaging intro, and helpful subheadings.\n" +
		"Use the keyword naturally and make it valuable to readers.\n"
}

// BuildTemplatePrompt appends the template's section outline to the base prompt
func BuildTemplatePrompt(keyword, tone, length string, t Template) string {
	var b strings.Builder
	b.WriteString(BuildPrompt(keyword, tone, length))
	fmt.Fprintf(&b, "Follow the %s structure with these sections, in order:\n", t.Name)
	for i, section := range t.Structure {
		fmt.Fprintf(&b, "%d. %s\n", i+1, section)
	}
	return b.String()
}
