package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/rankcraft/backend/store"
)

const contentPreviewLength = 200

var (
	markdown = goldmark.New()
	policy   = bluemonday.UGCPolicy()
)

// escapeMarkdown keeps user copy from being read as markdown or raw HTML
func escapeMarkdown(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	replacer := strings.NewReplacer(
		`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`,
		"[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;", "|", `\|`,
	)
	return replacer.Replace(s)
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) > contentPreviewLength {
		runes = runes[:contentPreviewLength]
	}
	return string(runes) + "..."
}

// Markdown renders a stored report as a markdown document
func Markdown(r store.StoredReport) string {
	var b strings.Builder
	in := r.Input
	rep := r.Report

	b.WriteString("# SEO Report\n\n")
	fmt.Fprintf(&b, "**Title:** %s\n\n", escapeMarkdown(in.Title))
	fmt.Fprintf(&b, "**Meta Description:** %s\n\n", escapeMarkdown(in.MetaDescription))
	fmt.Fprintf(&b, "**Content:** %s\n\n", escapeMarkdown(preview(in.Content)))
	fmt.Fprintf(&b, "**Keyword:** %s\n\n", escapeMarkdown(in.Keyword))
	fmt.Fprintf(&b, "**SEO Score:** %d\n\n", rep.ContentAnalysis.SEOScore)
	fmt.Fprintf(&b, "**Title Score:** %d\n\n", rep.TitleAnalysis.Score)
	fmt.Fprintf(&b, "**Meta Score:** %d\n\n", rep.MetaAnalysis.Score)
	fmt.Fprintf(&b, "**Readability:** %.2f\n\n", rep.ContentAnalysis.Readability)
	fmt.Fprintf(&b, "**Keyword Density:** %.2f%%\n\n", rep.ContentAnalysis.KeywordDensity)

	writeList(&b, "Title Issues", rep.TitleAnalysis.Issues)
	writeList(&b, "Meta Description Issues", rep.MetaAnalysis.Issues)
	writeList(&b, "Recommendations", rep.ContentAnalysis.Recommendations)

	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", escapeMarkdown(item))
	}
	b.WriteString("\n")
}

func page(title string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

// RenderReportHTML renders a stored report as a standalone HTML page
func RenderReportHTML(r store.StoredReport) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return page("SEO Report", body.Bytes()), nil
}

// RenderArticle converts a generated markdown article to sanitized HTML
func RenderArticle(title, md string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("failed to render article: %w", err)
	}
	return page(title, policy.SanitizeBytes(body.Bytes())), nil
}
