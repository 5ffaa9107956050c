package db

import (
	"context"
	"time"

	"github.com/NasaVasa/earnwatch/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TickerRepository struct {
	db *gorm.DB
}

func NewTickerRepository(db *gorm.DB) *TickerRepository {
	return &TickerRepository{db: db}
}

func (r *TickerRepository) ActiveSymbols(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Symbol   string
		Exchange string
	}
	if err := r.db.WithContext(ctx).Model(&tickerModel{}).Select("symbol", "exchange").Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	symbols := make(map[string]string, len(rows))
	for _, row := range rows {
		symbols[row.Symbol] = row.Exchange
	}
	return symbols, nil
}

func (r *TickerRepository) ListNeedingEnrichment(ctx context.Context, now time.Time, retryAfter time.Duration, limit int) ([]domain.Ticker, error) {
	cutoff := storedTime(now.Add(-retryAfter))
	var models []tickerModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("profile_fetched_at IS NULL OR (industry = '' AND profile_fetched_at <= ?)", cutoff).
		Order("profile_fetched_at IS NOT NULL, profile_fetched_at, symbol").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	tickers := make([]domain.Ticker, 0, len(models))
	for _, model := range models {
		tickers = append(tickers, mapTickerToDomain(model))
	}
	return tickers, nil
}

func (r *TickerRepository) Upsert(ctx context.Context, ticker *domain.Ticker) error {
	model := mapTickerToModel(*ticker)
	model.IsActive = true
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"exchange", "description", "is_active", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return err
	}
	ticker.IsActive = true
	return nil
}

func (r *TickerRepository) MarkInactive(ctx context.Context, symbol string) error {
	result := r.db.WithContext(ctx).Model(&tickerModel{}).Where("symbol = ?", symbol).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TickerRepository) UpdateProfile(ctx context.Context, ticker *domain.Ticker) error {
	var fetchedAt *time.Time
	if ticker.ProfileFetchedAt != nil {
		t := storedTime(*ticker.ProfileFetchedAt)
		fetchedAt = &t
	}
	result := r.db.WithContext(ctx).Model(&tickerModel{}).Where("symbol = ?", ticker.Symbol).Updates(map[string]interface{}{
		"industry":           ticker.Industry,
		"sector":             ticker.Sector,
		"profile_fetched_at": fetchedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// storedTime keeps timestamps in one zone and precision so they compare
// correctly on every backend, including sqlite's text timestamps.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func mapTickerToDomain(model tickerModel) domain.Ticker {
	return domain.Ticker{
		Symbol:           model.Symbol,
		Exchange:         model.Exchange,
		Description:      model.Description,
		Industry:         model.Industry,
		Sector:           model.Sector,
		IsActive:         model.IsActive,
		ProfileFetchedAt: model.ProfileFetchedAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func mapTickerToModel(ticker domain.Ticker) tickerModel {
	var fetchedAt *time.Time
	if ticker.ProfileFetchedAt != nil {
		t := storedTime(*ticker.ProfileFetchedAt)
		fetchedAt = &t
	}
	return tickerModel{
		Symbol:           ticker.Symbol,
		Exchange:         ticker.Exchange,
		Description:      ticker.Description,
		Industry:         ticker.Industry,
		Sector:           ticker.Sector,
		IsActive:         ticker.IsActive,
		ProfileFetchedAt: fetchedAt,
		CreatedAt:        ticker.CreatedAt,
		UpdatedAt:        ticker.UpdatedAt,
	}
}
