package rest

import (
	"errors"
	"net/http"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type reportResponse struct {
	Period          string  `json:"period"`
	Actual          *string `json:"actual,omitempty"`
	Estimate        *string `json:"estimate,omitempty"`
	SurprisePercent *string `json:"surprisePercent,omitempty"`
}

type earningsResponse struct {
	Symbol       string          `json:"symbol"`
	NextEarnings string          `json:"nextEarnings"`
	LastReport   *reportResponse `json:"lastReport,omitempty"`
}

func (h *Handler) GetEarnings(c *gin.Context) {
	outlook, err := h.earnings.Outlook(c.Request.Context(), c.Param("symbol"))
	switch {
	case errors.Is(err, usecase.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid symbol"})
		return
	case errors.Is(err, usecase.ErrNoEarningsDate):
		c.JSON(http.StatusNotFound, gin.H{"error": "no upcoming earnings date"})
		return
	case err != nil:
		h.logger.Warn("earnings lookup failed", zap.String("symbol", c.Param("symbol")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "earnings provider unavailable"})
		return
	}

	out := earningsResponse{Symbol: outlook.Symbol, NextEarnings: datemath.Format(outlook.NextEarnings)}
	if report := outlook.LastReport; report != nil {
		out.LastReport = &reportResponse{Period: datemath.Format(report.Period)}
		if report.Actual != nil {
			value := report.Actual.String()
			out.LastReport.Actual = &value
		}
		if report.Estimate != nil {
			value := report.Estimate.String()
			out.LastReport.Estimate = &value
		}
		if report.SurprisePercent != nil {
			value := report.SurprisePercent.String()
			out.LastReport.SurprisePercent = &value
		}
	}
	c.JSON(http.StatusOK, out)
}
