package httpserver

import (
	"net/http"
	"strconv"

	activityrepo "cafepos/internal/repository/activity"
	reportsvc "cafepos/internal/service/report"
	"github.com/gin-gonic/gin"
)

func listActivityHandler(repo activityrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}
		records, err := repo.List(c.Request.Context(), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"activity": records})
	}
}

func dashboardSummaryHandler(svc *reportsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Summary(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
