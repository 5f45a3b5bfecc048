package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	baselineScore = 100

	titleMinLength = 50
	titleMaxLength = 60
	metaMinLength  = 120
	metaMaxLength  = 160

	titleMissingKeywordPenalty = 30
	titleLengthPenalty         = 20
	titlePowerWordPenalty      = 10

	metaLengthPenalty         = 25
	metaMissingKeywordPenalty = 30
	metaCallToActionPenalty   = 15

	fleschBase           = 206.835
	fleschSentenceWeight = 1.015
	fleschSyllableWeight = 84.6

	minContentLength   = 500
	minReadability     = 60.0
	minKeywordDensity  = 1.0
	maxKeywordDensity  = 2.5
	densityPoints      = 40
	readabilityPoints  = 30
	contentLengthPoint = 30
	maxSEOScore        = 100
)

// PowerWords reward a title when any of them appears in it
var PowerWords = []string{"best", "guide", "tips", "easy", "free", "2025", "review", "how"}

// CallToActionWords reward a meta description when any of them appears in it
var CallToActionWords = []string{"learn", "discover", "find", "click", "read", "get"}

const (
	IssueTitleMissingKeyword = "Title is missing the target keyword."
	IssueTitlePowerWords     = "Title could use more engaging words."
	IssueMetaMissingKeyword  = "Meta description is missing the target keyword."
	IssueMetaCallToAction    = "Meta could include a clearer call-to-action."

	RecommendKeywordUsage = "Increase keyword usage."
	RecommendLength       = "Write at least 500 words."
	RecommendReadability  = "Simplify sentences for better readability."
)

func titleLengthIssue(length int) string {
	return fmt.Sprintf("Title length should be %d–%d characters (currently %d).", titleMinLength, titleMaxLength, length)
}

func metaLengthIssue(length int) string {
	return fmt.Sprintf("Meta description length should be %d–%d characters (currently %d).", metaMinLength, metaMaxLength, length)
}

// charCount counts characters as given, including whitespace and punctuation
func charCount(s string) int {
	return utf8.RuneCountInString(s)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsAny(s string, words []string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// tagChecker accumulates triggered rules for a title or meta description
type tagChecker struct {
	score  int
	issues []string
}

func newTagChecker() *tagChecker {
	return &tagChecker{score: baselineScore, issues: []string{}}
}

func (c *tagChecker) fail(issue string, penalty int) {
	c.issues = append(c.issues, issue)
	c.score -= penalty
}

func (c *tagChecker) result(length int) TagAnalysis {
	return TagAnalysis{
		Score:  max(0, c.score),
		Issues: c.issues,
		Length: length,
	}
}

// AnalyzeTitle checks keyword presence, length and power words, in that order
func AnalyzeTitle(title, keyword string) TagAnalysis {
	c := newTagChecker()
	length := charCount(title)

	if !containsFold(title, keyword) {
		c.fail(IssueTitleMissingKeyword, titleMissingKeywordPenalty)
	}
	if length < titleMinLength || length > titleMaxLength {
		c.fail(titleLengthIssue(length), titleLengthPenalty)
	}
	if !containsAny(title, PowerWords) {
		c.fail(IssueTitlePowerWords, titlePowerWordPenalty)
	}

	return c.result(length)
}

// AnalyzeMeta checks length, keyword presence and a call to action, in that order
func AnalyzeMeta(meta, keyword string) TagAnalysis {
	c := newTagChecker()
	length := charCount(meta)

	if length < metaMinLength || length > metaMaxLength {
		c.fail(metaLengthIssue(length), metaLengthPenalty)
	}
	if !containsFold(meta, keyword) {
		c.fail(IssueMetaMissingKeyword, metaMissingKeywordPenalty)
	}
	if !containsAny(meta, CallToActionWords) {
		c.fail(IssueMetaCallToAction, metaCallToActionPenalty)
	}

	return c.result(length)
}
