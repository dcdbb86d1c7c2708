package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type VisitStatus string

const (
	VisitStatusCompleted VisitStatus = "COMPLETED"
)

// Visit is one completed transaction at a service center. Aggregate money
// fields are computed at creation time and never mutated afterwards; the
// engine is append-only for history.
type Visit struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	VehicleID       snowflake.ID `gorm:"not null;index" json:"vehicle_id"`
	ServiceCenterID snowflake.ID `gorm:"not null;index" json:"service_center_id"`
	Description     string       `gorm:"type:text;not null" json:"description"`
	Cost            int64        `gorm:"not null" json:"cost"`
	Mileage         *int         `json:"mileage,omitempty"`
	Cashback        int64        `gorm:"not null;default:0" json:"cashback"`
	CashbackUsed    int64        `gorm:"not null;default:0" json:"cashback_used"`
	ServiceFee      int64        `gorm:"not null;default:0" json:"service_fee"`
	Status          VisitStatus  `gorm:"type:text;not null;default:'COMPLETED'" json:"status"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (Visit) TableName() string { return "visits" }

// VisitService is one line item. The service name is denormalized at
// write time so later catalog edits cannot rewrite history.
type VisitService struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	VisitID     snowflake.ID `gorm:"not null;index" json:"visit_id"`
	ServiceName string       `gorm:"type:text;not null" json:"service_name"`
	Price       int64        `gorm:"not null" json:"price"`
	Commission  int64        `gorm:"not null" json:"commission"`
	Cashback    int64        `gorm:"not null" json:"cashback"`
	Details     *string      `gorm:"type:text" json:"details,omitempty"`
}

// TableName sets the database table name.
func (VisitService) TableName() string { return "visit_services" }
