package db

import (
	"context"
	"errors"

	"github.com/NasaVasa/earnwatch/internal/datemath"
	"github.com/NasaVasa/earnwatch/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAlertRepository(db *gorm.DB, logger *zap.Logger) *AlertRepository {
	return &AlertRepository{db: db, logger: logger}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, alertID uuid.UUID) (*domain.Alert, error) {
	var model alertModel
	if err := r.db.WithContext(ctx).Where("id = ?", alertID.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	alert, err := mapAlertToDomain(model)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *AlertRepository) Update(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	result := r.db.WithContext(ctx).Model(&alertModel{}).Where("id = ?", model.ID).Updates(map[string]interface{}{
		"days_before":        model.DaysBefore,
		"days_after":         model.DaysAfter,
		"recurring":          model.Recurring,
		"earnings_date":      model.EarningsDate,
		"scheduled_email_id": model.ScheduledEmailID,
		"status":             model.Status,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) Delete(ctx context.Context, alertID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", alertID.String()).Delete(&alertModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at, id").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapAlertsToDomain(models), nil
}

func (r *AlertRepository) ListByStatusAndType(ctx context.Context, status domain.AlertStatus, alertType domain.AlertType) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND alert_type = ?", string(status), string(alertType)).
		Order("earnings_date, id").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapAlertsToDomain(models), nil
}

// mapAlertsToDomain drops rows whose offset columns contradict their type so
// one bad row cannot stall a whole listing.
func (r *AlertRepository) mapAlertsToDomain(models []alertModel) []domain.Alert {
	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alert, err := mapAlertToDomain(model)
		if err != nil {
			r.logger.Warn("skipping malformed alert row", zap.String("alert_id", model.ID), zap.Error(err))
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts
}

func mapAlertToDomain(model alertModel) (domain.Alert, error) {
	alert, err := domain.RestoreAlert(domain.AlertType(model.AlertType), model.DaysBefore, model.DaysAfter)
	if err != nil {
		return domain.Alert{}, err
	}
	id, err := uuid.Parse(model.ID)
	if err != nil {
		return domain.Alert{}, err
	}
	alert.ID = id
	alert.UserID = model.UserID
	alert.Symbol = model.Symbol
	alert.Recurring = model.Recurring
	alert.EarningsDate = datemath.Day(model.EarningsDate)
	alert.ScheduledEmailID = model.ScheduledEmailID
	alert.Status = domain.AlertStatus(model.Status)
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt
	return alert, nil
}

func mapAlertToModel(alert domain.Alert) alertModel {
	model := alertModel{
		ID:               alert.ID.String(),
		UserID:           alert.UserID,
		Symbol:           alert.Symbol,
		AlertType:        string(alert.Type),
		Recurring:        alert.Recurring,
		EarningsDate:     datemath.Day(alert.EarningsDate),
		ScheduledEmailID: alert.ScheduledEmailID,
		Status:           string(alert.Status),
		CreatedAt:        alert.CreatedAt,
		UpdatedAt:        alert.UpdatedAt,
	}
	if days, ok := alert.DaysBefore(); ok {
		model.DaysBefore = &days
	}
	if days, ok := alert.DaysAfter(); ok {
		model.DaysAfter = &days
	}
	return model
}
