package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// RuleType selects how a commission or cashback value is interpreted.
type RuleType string

const (
	RuleTypePercent RuleType = "percent"
	RuleTypeFixed   RuleType = "fixed"
)

// Service is a catalog entry with default commission and cashback rules.
// Rule values may be edited by an administrator; the identity is immutable
// and rows are never deleted while historical overrides reference them.
type Service struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Category        string       `gorm:"type:text;not null;default:'general'" json:"category"`
	CommissionType  RuleType     `gorm:"type:text;not null;default:'percent'" json:"commission_type"`
	CommissionValue float64      `gorm:"not null;default:20" json:"commission_value"`
	CashbackType    RuleType     `gorm:"type:text;not null;default:'percent'" json:"cashback_type"`
	CashbackValue   float64      `gorm:"not null;default:25" json:"cashback_value"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Service) TableName() string { return "services" }
