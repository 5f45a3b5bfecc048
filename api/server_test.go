package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankcraft/backend/analyzer"
	"github.com/rankcraft/backend/cache"
	"github.com/rankcraft/backend/generator"
	"github.com/rankcraft/backend/keywords"
	"github.com/rankcraft/backend/logging"
	"github.com/rankcraft/backend/middleware"
	"github.com/rankcraft/backend/stats"
	"github.com/rankcraft/backend/store"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	logging.Discard()
}

type testEnv struct {
	server *Server
	router *gin.Engine
	llm    *generator.MockLLM
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	suggestServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["q",["seo tools","seo audit"]]`))
	}))
	t.Cleanup(suggestServer.Close)

	memory := cache.NewMemoryStore(100, 0)
	t.Cleanup(func() { memory.Close() })

	usage, err := stats.NewStorage(dir)
	require.NoError(t, err)
	t.Cleanup(func() { usage.Shutdown() })

	db, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	seoAnalyzer := analyzer.New(memory, usage, time.Minute)
	seoAnalyzer.AllowPrivateNetworks()

	llm := &generator.MockLLM{}
	s := &Server{
		Analyzer:    seoAnalyzer,
		DB:          db,
		Suggester:   keywords.NewSuggester(suggestServer.URL, memory, time.Minute, usage),
		Generator:   generator.New(llm, usage),
		Statistics:  logging.NewStatistics(filepath.Join(dir, "statistics.json"), true),
		Usage:       usage,
		Auth:        middleware.NewAuthenticator(testSecret),
		RateLimiter: middleware.NewRateLimiter(1000, 1000),
	}
	return &testEnv{server: s, router: s.Router(), llm: llm}
}

func token(t *testing.T, userID string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, userID))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAnalyzeSEO(t *testing.T) {
	env := newTestEnv(t)
	in := analyzer.AnalysisInput{
		Title:           "Best SEO Guide to Content Marketing in 2025",
		MetaDescription: "Short copy about nothing much at all now",
		Content:         "The cat sat.",
		Keyword:         "seo",
	}

	t.Run("RequiresAuth", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/seo/analyze", "", in)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("SnakeCaseReport", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/seo/analyze", "user-1", in)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotEmpty(t, w.Header().Get(reportIDHeader))

		raw := decode[map[string]map[string]any](t, w)
		assert.Contains(t, raw, "title_analysis")
		assert.Contains(t, raw, "meta_analysis")
		assert.Contains(t, raw["content_analysis"], "seo_score")
		assert.Contains(t, raw["content_analysis"], "keyword_density")

		report := decode[analyzer.SEOReport](t, w)
		assert.Equal(t, analyzer.FullSEOAnalysis(in.Title, in.MetaDescription, in.Content, in.Keyword), report)
	})

	t.Run("ExportStoredReport", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/seo/analyze", "user-1", in)
		id := w.Header().Get(reportIDHeader)
		require.NotEmpty(t, id)

		w = env.do(t, http.MethodGet, "/api/seo/reports/"+id+"/export", "user-1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), analyzer.IssueMetaMissingKeyword)

		w = env.do(t, http.MethodGet, "/api/seo/reports/"+id+"/export?format=md", "user-1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Body.String(), "#"), w.Body.String())

		w = env.do(t, http.MethodGet, "/api/seo/reports/"+id+"/export?format=pdf", "user-1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodGet, "/api/seo/reports/"+id+"/export", "user-2", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/seo/analyze", strings.NewReader("{"))
		req.Header.Set("Authorization", "Bearer "+token(t, "user-1"))
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	snapshot := env.server.Statistics.GetStatistics()
	assert.Equal(t, 4, snapshot["totalRequests"])
}

func TestAnalyzeURL(t *testing.T) {
	env := newTestEnv(t)
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>SEO Tips</title><meta name="description" content="Learn SEO."></head><body><p>SEO is fun.</p></body></html>`))
	}))
	defer site.Close()

	w := env.do(t, http.MethodPost, "/api/seo/analyze-url", "user-1", gin.H{"url": site.URL, "keyword": "seo"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Input  analyzer.AnalysisInput `json:"input"`
		Report analyzer.SEOReport     `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SEO Tips", body.Input.Title)
	assert.Equal(t, 8, body.Report.TitleAnalysis.Length)

	w = env.do(t, http.MethodPost, "/api/seo/analyze-url", "user-1", gin.H{"url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.server.Analyzer = analyzer.New(nil, nil, 0)
	w = env.do(t, http.MethodPost, "/api/seo/analyze-url", "user-1", gin.H{"url": site.URL, "keyword": "seo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"URL points to a disallowed address"}`, w.Body.String())
}

func TestSuggestKeywords(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/keywords/suggest?q=seo", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"query":"seo","suggestions":["seo tools","seo audit"],"saved":2}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/keywords/suggest?q=s", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t)

	t.Run("Article", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/generate/article", "", gin.H{"keyword": "seo", "length": "short", "tone": "casual"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		article := decode[generator.Article](t, w)
		assert.Equal(t, "seo", article.Keyword)
		assert.Contains(t, article.Article, "Length: 500 words.")
	})

	t.Run("InvalidTone", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/generate/article", "", gin.H{"keyword": "seo", "length": "short", "tone": "angry"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Template", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/generate/template", "", gin.H{"keyword": "desk", "length": "short", "tone": "casual", "template_id": "how-to-guide"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "how-to-guide", decode[generator.Article](t, w).Template)

		w = env.do(t, http.MethodPost, "/api/generate/template", "", gin.H{"keyword": "desk", "length": "short", "tone": "casual", "template_id": "nope"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Batch", func(t *testing.T) {
		items := []gin.H{
			{"keyword": "seo", "length": "short", "tone": "casual"},
			{"keyword": "x", "length": "short", "tone": "casual"},
		}
		w := env.do(t, http.MethodPost, "/api/generate/batch", "", gin.H{"items": items})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode[struct {
			Results []generator.BatchResult `json:"results"`
		}](t, w)
		require.Len(t, body.Results, 2)
		assert.Empty(t, body.Results[0].Error)
		assert.NotEmpty(t, body.Results[1].Error)

		w = env.do(t, http.MethodPost, "/api/generate/batch", "", gin.H{"items": []gin.H{}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		s := *env.server
		s.Generator = nil
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/generate/article", strings.NewReader(`{}`))
		s.Router().ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	w := env.do(t, http.MethodGet, "/api/templates", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "product-description")
}

func TestArticles(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/articles", "user-1", gin.H{
		"keyword": "seo", "length": "short", "tone": "casual", "article": "# Hello\n\n<script>alert(1)</script>Body",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[store.Article](t, w)
	assert.NotEmpty(t, created.ID)

	w = env.do(t, http.MethodPost, "/api/articles", "user-1", gin.H{"keyword": "seo"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/articles", "user-1", nil)
	assert.Len(t, decode[[]store.Article](t, w), 1)

	w = env.do(t, http.MethodGet, "/api/articles", "user-2", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/articles/"+created.ID+"/html", "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Hello</h1>")
	assert.NotContains(t, w.Body.String(), "<script>")

	w = env.do(t, http.MethodPut, "/api/articles/"+created.ID, "user-1", gin.H{"tone": "technical"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "technical", decode[store.Article](t, w).Tone)

	w = env.do(t, http.MethodGet, "/api/dashboard/analytics", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[store.Dashboard](t, w)
	assert.Equal(t, 1, dash.TotalArticles)
	assert.Equal(t, []string{"seo"}, dash.TopKeywords)

	w = env.do(t, http.MethodDelete, "/api/articles/"+created.ID, "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/articles/"+created.ID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Article not found"}`, w.Body.String())
}

func TestStatisticsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/statistics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]any](t, w)
	assert.Contains(t, body, "uniqueVisitors24h")
	assert.Contains(t, body, "usage")
}

func TestUsageHistory(t *testing.T) {
	env := newTestEnv(t)
	env.server.Usage.RecordArticles(2)

	w := env.do(t, http.MethodGet, "/api/statistics/usage", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	months := decode[struct {
		Months []string `json:"months"`
	}](t, w).Months
	require.Len(t, months, 1)

	w = env.do(t, http.MethodGet, "/api/statistics/usage?month="+months[0], "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[stats.MonthlyStats](t, w).ArticlesGenerated)

	w = env.do(t, http.MethodGet, "/api/statistics/usage?month=1999-01", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
