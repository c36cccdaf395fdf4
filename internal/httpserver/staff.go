package httpserver

import (
	"net/http"

	staffsvc "cafepos/internal/service/staff"
	"github.com/gin-gonic/gin"
)

type referralCodeRequest struct {
	Role string `json:"role"`
}

func registerStaffHandler(svc *staffsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in staffsvc.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		staff, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		// The token is only disclosed once, at registration.
		c.JSON(http.StatusCreated, gin.H{"staff": staff, "token": staff.Token})
	}
}

func listStaffHandler(svc *staffsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		staff, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"staff": staff})
	}
}

func createReferralCodeHandler(svc *staffsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in referralCodeRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		code, err := svc.GenerateReferralCode(c.Request.Context(), currentActor(c), in.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, code)
	}
}
