package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankcraft/backend/analyzer"
	"github.com/rankcraft/backend/generator"
	"github.com/rankcraft/backend/keywords"
	"github.com/rankcraft/backend/logging"
	"github.com/rankcraft/backend/middleware"
	"github.com/rankcraft/backend/stats"
	"github.com/rankcraft/backend/store"
)

// Server holds the services the HTTP handlers use. Generator is nil when no
// LLM is configured; Usage may be nil.
type Server struct {
	Analyzer   *analyzer.Analyzer
	DB         *store.DB
	Suggester  *keywords.Suggester
	Generator  *generator.Generator
	Statistics *logging.Statistics
	Usage      *stats.Storage

	Auth        *middleware.Authenticator
	RateLimiter *middleware.RateLimiter
}

// Router builds the gin engine with all API routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())

	r.Use(middleware.ErrorHandler())
	if s.RateLimiter != nil {
		r.Use(s.RateLimiter.RateLimit())
	}
	r.Use(middleware.CORS())
	if s.Statistics != nil {
		r.Use(middleware.Stats(s.Statistics))
	}

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/statistics", s.statistics)
		api.GET("/statistics/usage", s.usageHistory)

		api.GET("/keywords/suggest", s.suggestKeywords)

		api.GET("/templates", s.listTemplates)
		generate := api.Group("/generate")
		{
			generate.POST("/article", s.generateArticle)
			generate.POST("/template", s.generateFromTemplate)
			generate.POST("/batch", s.generateBatch)
		}

		private := api.Group("")
		private.Use(s.Auth.Auth())
		{
			private.POST("/seo/analyze", s.analyzeSEO)
			private.POST("/seo/analyze-url", s.analyzeURL)
			private.GET("/seo/reports/:id/export", s.exportReport)

			private.POST("/articles", s.createArticle)
			private.GET("/articles", s.listArticles)
			private.GET("/articles/:id", s.getArticle)
			private.GET("/articles/:id/html", s.articleHTML)
			private.PUT("/articles/:id", s.updateArticle)
			private.DELETE("/articles/:id", s.deleteArticle)

			private.GET("/dashboard/analytics", s.dashboard)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	logging.Log.WithField("ip", c.ClientIP()).Debug("health check")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) statistics(c *gin.Context) {
	result := gin.H{}
	if s.Statistics != nil {
		for k, v := range s.Statistics.GetStatistics() {
			result[k] = v
		}
	}
	if s.Usage != nil {
		result["usage"] = s.Usage.GetCurrentStats()
	}
	c.JSON(http.StatusOK, result)
}

// usageHistory returns one month's usage counters, or the months on record
// when no month is given
func (s *Server) usageHistory(c *gin.Context) {
	if s.Usage == nil {
		abortWithError(c, http.StatusNotFound, "Usage statistics are not enabled")
		return
	}

	month := c.Query("month")
	if month == "" {
		c.JSON(http.StatusOK, gin.H{"months": s.Usage.GetAllMonths()})
		return
	}

	usage, ok := s.Usage.GetMonthlyStats(month)
	if !ok {
		abortWithError(c, http.StatusNotFound, "No usage recorded for "+month)
		return
	}
	c.JSON(http.StatusOK, usage)
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
