package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankcraft/backend/analyzer"
	"github.com/rankcraft/backend/logging"
	"github.com/rankcraft/backend/middleware"
	"github.com/rankcraft/backend/report"
	"github.com/rankcraft/backend/store"
)

const reportIDHeader = "X-Report-ID"

// saveReport persists a report; a storage failure does not fail the analysis
func (s *Server) saveReport(c *gin.Context, in analyzer.AnalysisInput, result analyzer.SEOReport) {
	saved, err := s.DB.SaveReport(c.Request.Context(), middleware.UserID(c), in, result)
	if err != nil {
		logging.Log.WithError(err).Error("could not save seo report")
		return
	}
	c.Header(reportIDHeader, saved.ID)
}

func (s *Server) analyzeSEO(c *gin.Context) {
	var in analyzer.AnalysisInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid analysis request")
		return
	}
	c.Set(middleware.KeywordKey, in.Keyword)

	result := s.Analyzer.Analyze(c.Request.Context(), in)
	s.saveReport(c, in, result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) analyzeURL(c *gin.Context) {
	var request struct {
		URL     string `json:"url" binding:"required,url"`
		Keyword string `json:"keyword"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid URL provided")
		return
	}
	c.Set(middleware.KeywordKey, request.Keyword)

	page, err := s.Analyzer.FetchPage(c.Request.Context(), request.URL)
	if errors.Is(err, analyzer.ErrBlockedAddress) {
		abortWithError(c, http.StatusBadRequest, "URL points to a disallowed address")
		return
	}
	if err != nil {
		abortWithError(c, http.StatusBadGateway, "Failed to analyze URL: "+err.Error())
		return
	}

	in := page.Input(request.Keyword)
	result := s.Analyzer.Analyze(c.Request.Context(), in)
	s.saveReport(c, in, result)
	c.JSON(http.StatusOK, gin.H{
		"url":    page.URL,
		"input":  in,
		"report": result,
	})
}

func (s *Server) exportReport(c *gin.Context) {
	stored, err := s.DB.GetReport(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "Report not found")
		return
	}
	if err != nil {
		logging.Log.WithError(err).Error("could not load seo report")
		abortWithError(c, http.StatusInternalServerError, "Failed to load report")
		return
	}

	switch c.DefaultQuery("format", "html") {
	case "md", "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(stored)))
	case "html":
		page, err := report.RenderReportHTML(stored)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	default:
		abortWithError(c, http.StatusBadRequest, "format must be html or md")
	}
}
