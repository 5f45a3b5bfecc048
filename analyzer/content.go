package analyzer

// SEOScore awards points for keyword density in band, readability and
// content length. The bands sum to at most 100; the cap still applies.
func SEOScore(content, keyword string) int {
	return scoreContent(KeywordDensity(content, keyword), Readability(content), charCount(content))
}

func scoreContent(density, readability float64, length int) int {
	score := 0
	if density >= minKeywordDensity && density <= maxKeywordDensity {
		score += densityPoints
	}
	if readability >= minReadability {
		score += readabilityPoints
	}
	if length >= minContentLength {
		score += contentLengthPoint
	}
	return min(score, maxSEOScore)
}

// Recommendations lists content fixes in a fixed order. The length check
// counts characters despite its wording.
func Recommendations(content, keyword string) []string {
	return recommend(KeywordDensity(content, keyword), Readability(content), charCount(content))
}

func recommend(density, readability float64, length int) []string {
	recommendations := []string{}
	if density < minKeywordDensity {
		recommendations = append(recommendations, RecommendKeywordUsage)
	}
	if length < minContentLength {
		recommendations = append(recommendations, RecommendLength)
	}
	if readability < minReadability {
		recommendations = append(recommendations, RecommendReadability)
	}
	return recommendations
}

// AnalyzeContent computes density and readability once and derives the
// score and recommendations from them
func AnalyzeContent(content, keyword string) ContentAnalysis {
	density := KeywordDensity(content, keyword)
	readability := Readability(content)
	length := charCount(content)

	return ContentAnalysis{
		SEOScore:        scoreContent(density, readability, length),
		Readability:     readability,
		KeywordDensity:  density,
		Recommendations: recommend(density, readability, length),
	}
}

// FullSEOAnalysis scores title, meta description and content against keyword.
// It is pure and safe for concurrent use.
func FullSEOAnalysis(title, metaDescription, content, keyword string) SEOReport {
	return SEOReport{
		TitleAnalysis:   AnalyzeTitle(title, keyword),
		MetaAnalysis:    AnalyzeMeta(metaDescription, keyword),
		ContentAnalysis: AnalyzeContent(content, keyword),
	}
}

// Run is FullSEOAnalysis over an AnalysisInput
func (in AnalysisInput) Run() SEOReport {
	return FullSEOAnalysis(in.Title, in.MetaDescription, in.Content, in.Keyword)
}
