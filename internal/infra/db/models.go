package db

import (
	"time"

	"gorm.io/gorm"
)

type userModel struct {
	ID                 uint   `gorm:"primaryKey"`
	Email              string `gorm:"uniqueIndex;not null"`
	Name               string `gorm:""`
	EmailNotifications bool   `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (userModel) TableName() string { return "users" }

type alertModel struct {
	ID               string    `gorm:"type:varchar(36);primaryKey"`
	UserID           uint      `gorm:"index;not null"`
	Symbol           string    `gorm:"type:varchar(16);not null"`
	AlertType        string    `gorm:"type:varchar(8);index:idx_alerts_status_type,priority:2;not null"`
	DaysBefore       *int      `gorm:""`
	DaysAfter        *int      `gorm:""`
	Recurring        bool      `gorm:"not null"`
	EarningsDate     time.Time `gorm:"type:date;not null"`
	ScheduledEmailID string    `gorm:"type:varchar(128)"`
	Status           string    `gorm:"type:varchar(16);index:idx_alerts_status_type,priority:1;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (alertModel) TableName() string { return "alerts" }

type tickerModel struct {
	Symbol           string `gorm:"type:varchar(16);primaryKey"`
	Exchange         string `gorm:"type:varchar(16);not null"`
	Description      string `gorm:""`
	Industry         string `gorm:"not null;default:''"`
	Sector           string `gorm:"not null;default:''"`
	IsActive         bool   `gorm:"index;not null"`
	ProfileFetchedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (tickerModel) TableName() string { return "tickers" }
