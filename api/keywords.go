package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankcraft/backend/keywords"
	"github.com/rankcraft/backend/logging"
)

func (s *Server) suggestKeywords(c *gin.Context) {
	query := c.Query("q")

	suggestions, err := s.Suggester.Suggest(c.Request.Context(), query)
	if errors.Is(err, keywords.ErrQueryTooShort) {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logging.Log.WithError(err).WithField("query", query).Warn("keyword suggestion failed")
		abortWithError(c, http.StatusBadGateway, "Failed to fetch keyword suggestions")
		return
	}

	saved, err := s.DB.SaveKeywords(c.Request.Context(), query, suggestions)
	if err != nil {
		logging.Log.WithError(err).Error("could not save keyword suggestions")
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"suggestions": suggestions,
		"saved":       saved,
	})
}
