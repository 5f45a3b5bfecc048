package report

import (
	"strings"
	"testing"

	"github.com/rankcraft/backend/analyzer"
	"github.com/rankcraft/backend/store"
)

func sampleReport() store.StoredReport {
	in := analyzer.AnalysisInput{
		Title:           "Best SEO Guide to Content Marketing in 2025",
		MetaDescription: "Short copy <script>alert(1)</script> about nothing",
		Content:         strings.Repeat("word ", 100),
		Keyword:         "seo",
	}
	return store.StoredReport{ID: "r1", Input: in, Report: in.Run()}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	for _, want := range []string{
		"# SEO Report",
		"**Title Score:** 80",
		"**Meta Score:** 30",
		"## Title Issues",
		"- Title length should be 50–60 characters (currently 43).",
		"## Recommendations",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if !strings.Contains(md, "...") {
		t.Error("content preview should be truncated with an ellipsis")
	}
}

func TestRenderReportHTML(t *testing.T) {
	out, err := RenderReportHTML(sampleReport())
	if err != nil {
		t.Fatalf("RenderReportHTML() error = %v", err)
	}
	html := string(out)

	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Errorf("missing doctype:\n%s", html)
	}
	if !strings.Contains(html, "<h1>SEO Report</h1>") {
		t.Errorf("missing heading:\n%s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("user copy must be escaped:\n%s", html)
	}
}

func TestRenderArticle(t *testing.T) {
	out, err := RenderArticle("Draft <1>", "# Hello\n\nSome **bold** text.\n\n<iframe src=\"x\"></iframe>\n")
	if err != nil {
		t.Fatalf("RenderArticle() error = %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "<h1>Hello</h1>") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("unexpected article html:\n%s", html)
	}
	if strings.Contains(html, "<iframe") {
		t.Errorf("article html must be sanitized:\n%s", html)
	}
	if !strings.Contains(html, "<title>Draft &lt;1&gt;</title>") {
		t.Errorf("title must be escaped:\n%s", html)
	}
}
