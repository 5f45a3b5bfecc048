package analyzer

// AnalysisInput is the copy being scored against a target keyword
type AnalysisInput struct {
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	Content         string `json:"content"`
	Keyword         string `json:"keyword"`
}

// SEOReport represents the complete analysis of a piece of page copy
type SEOReport struct {
	TitleAnalysis   TagAnalysis     `json:"title_analysis"`
	MetaAnalysis    TagAnalysis     `json:"meta_analysis"`
	ContentAnalysis ContentAnalysis `json:"content_analysis"`
}

// TagAnalysis is the rule-checker result for a title tag or a meta description.
// Issues are listed in rule evaluation order.
type TagAnalysis struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
	Length int      `json:"length"`
}

// ContentAnalysis scores the body copy. Readability is an unbounded
// Flesch-style value and may fall outside 0-100.
type ContentAnalysis struct {
	SEOScore        int      `json:"seo_score"`
	Readability     float64  `json:"readability"`
	KeywordDensity  float64  `json:"keyword_density"`
	Recommendations []string `json:"recommendations"`
}

// Page is the copy extracted from an HTML document
type Page struct {
	URL             string `json:"url,omitempty"`
	Title           string `json:"title"`
	MetaDescription string `json:"meta_description"`
	Content         string `json:"content"`
}

// Input pairs the extracted page with a keyword
func (p Page) Input(keyword string) AnalysisInput {
	return AnalysisInput{
		Title:           p.Title,
		MetaDescription: p.MetaDescription,
		Content:         p.Content,
		Keyword:         keyword,
	}
}
