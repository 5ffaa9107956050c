package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
	"github.com/NasaVasa/earnwatch/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

type createAlertRequest struct {
	Symbol       string `json:"symbol" binding:"required"`
	Type         string `json:"type" binding:"required"`
	Days         int    `json:"days"`
	Recurring    bool   `json:"recurring"`
	EarningsDate string `json:"earningsDate"`
}

type updateAlertRequest struct {
	Days         *int    `json:"days"`
	Recurring    *bool   `json:"recurring"`
	EarningsDate *string `json:"earningsDate"`
}

type alertResponse struct {
	ID               string    `json:"id"`
	Symbol           string    `json:"symbol"`
	Type             string    `json:"type"`
	DaysBefore       *int      `json:"daysBefore,omitempty"`
	DaysAfter        *int      `json:"daysAfter,omitempty"`
	Recurring        bool      `json:"recurring"`
	EarningsDate     string    `json:"earningsDate"`
	Status           string    `json:"status"`
	ScheduledEmailID string    `json:"scheduledEmailId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerUserID))
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid user id"})
			return
		}
		c.Set(userIDKey, uint(id))
		c.Next()
	}
}

func (h *Handler) ListAlerts(c *gin.Context) {
	userID := c.GetUint(userIDKey)
	alerts, err := h.alerts.ListAlerts(c.Request.Context(), userID)
	if err != nil {
		h.writeAlertError(c, err)
		return
	}
	out := make([]alertResponse, 0, len(alerts))
	for i := range alerts {
		out = append(out, toAlertResponse(&alerts[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateAlert(c *gin.Context) {
	userID := c.GetUint(userIDKey)
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	alertType, err := domain.ParseAlertType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be before or after"})
		return
	}
	input := usecase.AlertInput{Symbol: req.Symbol, Type: alertType, Days: req.Days, Recurring: req.Recurring}
	if req.EarningsDate != "" {
		date, err := datemath.Parse(req.EarningsDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "earningsDate must be YYYY-MM-DD"})
			return
		}
		input.EarningsDate = &date
	}

	alert, err := h.alerts.AddAlert(c.Request.Context(), userID, input)
	if err != nil {
		h.writeAlertError(c, err)
		return
	}
	h.logger.Info("alert created", zap.Uint("user_id", userID), zap.String("alert_id", alert.ID.String()))
	c.JSON(http.StatusCreated, toAlertResponse(alert))
}

func (h *Handler) UpdateAlert(c *gin.Context) {
	userID := c.GetUint(userIDKey)
	alertID, ok := parseAlertID(c)
	if !ok {
		return
	}
	var req updateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	update := usecase.AlertUpdate{Days: req.Days, Recurring: req.Recurring}
	if req.EarningsDate != nil {
		date, err := datemath.Parse(*req.EarningsDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "earningsDate must be YYYY-MM-DD"})
			return
		}
		update.EarningsDate = &date
	}

	alert, err := h.alerts.UpdateAlert(c.Request.Context(), userID, alertID, update)
	if err != nil {
		h.writeAlertError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAlertResponse(alert))
}

func (h *Handler) DeleteAlert(c *gin.Context) {
	userID := c.GetUint(userIDKey)
	alertID, ok := parseAlertID(c)
	if !ok {
		return
	}
	if err := h.alerts.DeleteAlert(c.Request.Context(), userID, alertID); err != nil {
		h.writeAlertError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CancelAlert(c *gin.Context) {
	userID := c.GetUint(userIDKey)
	alertID, ok := parseAlertID(c)
	if !ok {
		return
	}
	alert, err := h.alerts.CancelAlert(c.Request.Context(), userID, alertID)
	if err != nil {
		h.writeAlertError(c, err)
		return
	}
	h.logger.Info("alert cancelled", zap.Uint("user_id", userID), zap.String("alert_id", alert.ID.String()))
	c.JSON(http.StatusOK, toAlertResponse(alert))
}

func parseAlertID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeAlertError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotRegistered):
		c.JSON(http.StatusForbidden, gin.H{"error": "user not registered"})
	case errors.Is(err, usecase.ErrAlertNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
	case errors.Is(err, usecase.ErrAlertClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "alert is no longer active"})
	case errors.Is(err, usecase.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid symbol"})
	case errors.Is(err, usecase.ErrInvalidOffset):
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 0 and 365"})
	case errors.Is(err, domain.ErrInvalidAlert):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNoEarningsDate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no upcoming earnings date"})
	default:
		h.logger.Warn("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func toAlertResponse(alert *domain.Alert) alertResponse {
	out := alertResponse{
		ID:               alert.ID.String(),
		Symbol:           alert.Symbol,
		Type:             string(alert.Type),
		Recurring:        alert.Recurring,
		EarningsDate:     datemath.Format(alert.EarningsDate),
		Status:           string(alert.Status),
		ScheduledEmailID: alert.ScheduledEmailID,
		CreatedAt:        alert.CreatedAt,
	}
	if days, ok := alert.DaysBefore(); ok {
		out.DaysBefore = &days
	}
	if days, ok := alert.DaysAfter(); ok {
		out.DaysAfter = &days
	}
	return out
}
