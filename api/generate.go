package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankcraft/backend/generator"
)

const maxBatchSize = 10

func (s *Server) generatorAvailable(c *gin.Context) bool {
	if s.Generator == nil {
		abortWithError(c, http.StatusServiceUnavailable, "Article generation is not configured")
		return false
	}
	return true
}

func generationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, generator.ErrInvalidRequest), errors.Is(err, generator.ErrUnknownTemplate):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) generateArticle(c *gin.Context) {
	if !s.generatorAvailable(c) {
		return
	}
	var req generator.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid generation request")
		return
	}

	article, err := s.Generator.Generate(c.Request.Context(), req)
	if err != nil {
		generationError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (s *Server) generateFromTemplate(c *gin.Context) {
	if !s.generatorAvailable(c) {
		return
	}
	var req struct {
		generator.Request
		TemplateID string `json:"template_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid generation request")
		return
	}

	article, err := s.Generator.GenerateFromTemplate(c.Request.Context(), req.Request, req.TemplateID)
	if err != nil {
		generationError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (s *Server) generateBatch(c *gin.Context) {
	if !s.generatorAvailable(c) {
		return
	}
	var req struct {
		Items []generator.Request `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid batch request")
		return
	}
	if len(req.Items) == 0 || len(req.Items) > maxBatchSize {
		abortWithError(c, http.StatusUnprocessableEntity, "items must contain between 1 and 10 requests")
		return
	}

	results, err := s.Generator.GenerateBatch(c.Request.Context(), req.Items)
	if err != nil {
		generationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": generator.Templates()})
}
