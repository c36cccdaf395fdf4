package httpserver

import (
	"net/http"
	"strconv"

	loyaltysvc "cafepos/internal/service/loyalty"
	"github.com/gin-gonic/gin"
)

type enrollRequest struct {
	Name string `json:"name"`
}

func searchCustomersHandler(svc *loyaltysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}
		customers, err := svc.Search(c.Request.Context(), c.Query("q"), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers})
	}
}

func enrollCustomerHandler(svc *loyaltysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in enrollRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		customer, err := svc.Enroll(c.Request.Context(), in.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

func customerHistoryHandler(svc *loyaltysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}
		entries, err := svc.History(c.Request.Context(), c.Param("id"), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

func listRewardsHandler(svc *loyaltysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rewards, err := svc.ListRewards(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rewards": rewards})
	}
}

func createRewardHandler(svc *loyaltysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loyaltysvc.RewardInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		reward, err := svc.CreateReward(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, reward)
	}
}
