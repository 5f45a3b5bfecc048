package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rankcraft/backend/logging"
	"github.com/rankcraft/backend/middleware"
	"github.com/rankcraft/backend/report"
	"github.com/rankcraft/backend/store"
)

func articleError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "Article not found")
		return
	}
	logging.Log.WithError(err).Error("article storage failed")
	abortWithError(c, http.StatusInternalServerError, "Article storage failed")
}

func (s *Server) createArticle(c *gin.Context) {
	var req struct {
		Keyword string `json:"keyword" binding:"required"`
		Length  string `json:"length" binding:"required"`
		Tone    string `json:"tone" binding:"required"`
		Article string `json:"article" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid article")
		return
	}

	article, err := s.DB.SaveArticle(c.Request.Context(), middleware.UserID(c), store.Article{
		Keyword: req.Keyword,
		Length:  req.Length,
		Tone:    req.Tone,
		Article: req.Article,
	})
	if err != nil {
		articleError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (s *Server) listArticles(c *gin.Context) {
	articles, err := s.DB.ListArticles(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		articleError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (s *Server) getArticle(c *gin.Context) {
	article, err := s.DB.GetArticle(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		articleError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (s *Server) articleHTML(c *gin.Context) {
	article, err := s.DB.GetArticle(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		articleError(c, err)
		return
	}

	page, err := report.RenderArticle(article.Keyword, article.Article)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) updateArticle(c *gin.Context) {
	var update store.ArticleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid article update")
		return
	}

	article, err := s.DB.UpdateArticle(c.Request.Context(), middleware.UserID(c), c.Param("id"), update)
	if err != nil {
		articleError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func (s *Server) deleteArticle(c *gin.Context) {
	if err := s.DB.DeleteArticle(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		articleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}

func (s *Server) dashboard(c *gin.Context) {
	dash, err := s.DB.Dashboard(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logging.Log.WithError(err).Error("could not build dashboard")
		abortWithError(c, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, dash)
}
