package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rankcraft/backend/logging"
)

// KeywordKey is the gin context key analysis handlers set to the analyzed keyword
const KeywordKey = "analysis.keyword"

const saveEvery = 100

// Stats tracks visitors and analysis requests, saving periodically
func Stats(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.Method != http.MethodPost || !strings.HasPrefix(c.FullPath(), "/api/seo/analyze") {
			return
		}

		loadTime := float64(time.Since(start).Milliseconds())
		stats.TrackAnalysis(c.GetString(KeywordKey), loadTime, c.Writer.Status() >= 400)

		if stats.TotalRequests()%saveEvery == 0 {
			go func() {
				if err := stats.Save(); err != nil {
					logging.Log.WithError(err).Warn("could not save request statistics")
				}
			}()
		}
	}
}
