package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/NasaVasa/earnwatch/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TriggerDaily runs the sweep to completion even if the caller hangs up.
func (h *Handler) TriggerDaily(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	summary, err := h.daily.Trigger(ctx, c.GetHeader(headerCronSecret))
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	case errors.Is(err, usecase.ErrTriggerSecretRequired):
		h.logger.Error("daily trigger misconfigured", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "trigger secret not configured"})
		return
	case err != nil:
		h.logger.Error("daily trigger failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	status := http.StatusOK
	if summary.Failed {
		status = http.StatusInternalServerError
	}
	c.JSON(status, summary)
}
