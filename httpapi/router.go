package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	streamless "github.com/streamless/streamless"
)

// SetupRouter mounts the API routes on a gin engine.
func SetupRouter(r *gin.Engine, logger *slog.Logger, h *Handler, engine *streamless.Engine) {
	r.Use(requestLogger(logger))

	api := r.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		if err := engine.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	plans := api.Group("/plans")
	{
		plans.POST("", h.CreatePlan)
		plans.GET("", h.ListPlans)
		plans.GET("/:id", h.GetPlan)
		plans.PUT("/:id", h.UpdatePlan)
	}
	api.GET("/creators/:creator/plans", h.ListCreatorPlans)

	deposits := api.Group("/deposits")
	{
		deposits.POST("", h.Deposit)
		deposits.POST("/withdrawals", h.Withdraw)
		deposits.GET("/balance", h.Balance)
	}

	subs := api.Group("/subscriptions")
	{
		subs.POST("", h.Subscribe)
		subs.GET("", h.ListSubscriptions)
		subs.GET("/:plan_id", h.GetSubscription)
		subs.DELETE("/:plan_id", h.Cancel)
	}

	api.GET("/payments", h.ListPayments)
}

// requestLogger logs one line per request in the engine's structured style.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
