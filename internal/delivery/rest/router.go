package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	"github.com/NasaVasa/earnwatch/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	headerCronSecret = "X-Cron-Secret"
	headerUserID     = "X-User-ID"
)

type DailyTrigger interface {
	Trigger(ctx context.Context, providedSecret string) (domain.DailySummary, error)
}

type Handler struct {
	daily    DailyTrigger
	alerts   *usecase.AlertUsecase
	earnings *usecase.EarningsUsecase
	logger   *zap.Logger
}

func NewHandler(daily DailyTrigger, alerts *usecase.AlertUsecase, earnings *usecase.EarningsUsecase, logger *zap.Logger) *Handler {
	return &Handler{daily: daily, alerts: alerts, earnings: earnings, logger: logger}
}

func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))

	router.GET("/healthz", h.Health)
	router.POST("/cron/daily", h.TriggerDaily)

	api := router.Group("/api")
	{
		alerts := api.Group("/alerts", requireUser())
		{
			alerts.GET("", h.ListAlerts)
			alerts.POST("", h.CreateAlert)
			alerts.PUT("/:id", h.UpdateAlert)
			alerts.DELETE("/:id", h.DeleteAlert)
			alerts.POST("/:id/cancel", h.CancelAlert)
		}
		api.GET("/earnings/:symbol", h.GetEarnings)
	}
	return router
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info(
			"http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
