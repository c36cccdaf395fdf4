package httpserver

import (
	"context"
	"log"
	"net/http"
	"strings"

	"cafepos/internal/domain"
	activityrepo "cafepos/internal/repository/activity"
	catalogsvc "cafepos/internal/service/catalog"
	loyaltysvc "cafepos/internal/service/loyalty"
	ordersvc "cafepos/internal/service/order"
	reportsvc "cafepos/internal/service/report"
	staffsvc "cafepos/internal/service/staff"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps bundles the services a router needs.
type Deps struct {
	OrderSvc     *ordersvc.Service
	CatalogSvc   *catalogsvc.Service
	LoyaltySvc   *loyaltysvc.Service
	StaffSvc     *staffsvc.Service
	ReportSvc    *reportsvc.Service
	ActivityRepo activityrepo.Repository
}

const actorKey = "actor"

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Actor, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = corsOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	v1 := router.Group("/v1")
	v1.POST("/staff/register", registerStaffHandler(deps.StaffSvc))

	authed := v1.Group("")
	authed.Use(authMiddleware(deps.StaffSvc))
	{
		authed.GET("/staff", listStaffHandler(deps.StaffSvc))
		authed.POST("/staff/referral-codes", createReferralCodeHandler(deps.StaffSvc))

		authed.GET("/products", listProductsHandler(deps.CatalogSvc))
		authed.POST("/products", createProductHandler(deps.CatalogSvc))
		authed.PATCH("/products/:id", updateProductHandler(deps.CatalogSvc))
		authed.POST("/products/:id/stock", adjustStockHandler(deps.CatalogSvc))
		authed.GET("/categories", listCategoriesHandler(deps.CatalogSvc))

		authed.GET("/loyalty/customers", searchCustomersHandler(deps.LoyaltySvc))
		authed.POST("/loyalty/customers", enrollCustomerHandler(deps.LoyaltySvc))
		authed.GET("/loyalty/customers/:id/history", customerHistoryHandler(deps.LoyaltySvc))
		authed.GET("/loyalty/rewards", listRewardsHandler(deps.LoyaltySvc))
		authed.POST("/loyalty/rewards", createRewardHandler(deps.LoyaltySvc))

		authed.POST("/orders", submitOrderHandler(deps.OrderSvc))
		authed.GET("/orders", listOrdersHandler(deps.OrderSvc))
		authed.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
		authed.POST("/orders/:id/payment", capturePaymentHandler(deps.OrderSvc))
		authed.POST("/orders/:id/complete", completeOrderHandler(deps.OrderSvc))
		authed.POST("/orders/:id/cancel", cancelOrderHandler(deps.OrderSvc))

		authed.GET("/activity", listActivityHandler(deps.ActivityRepo))
		authed.GET("/dashboard/summary", dashboardSummaryHandler(deps.ReportSvc))
	}

	return router
}

// authMiddleware resolves the staff actor behind the bearer token and puts it
// on the request context. Verification itself is the auth layer's concern.
func authMiddleware(auth authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		actor, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(actorKey, *actor)
		c.Next()
	}
}

func currentActor(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Actor{}
}
