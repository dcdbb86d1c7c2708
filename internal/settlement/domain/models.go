package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ReceiptStatus tracks the payment-proof workflow on a settlement.
type ReceiptStatus string

const (
	ReceiptStatusNone     ReceiptStatus = "NONE"
	ReceiptStatusPending  ReceiptStatus = "PENDING"
	ReceiptStatusApproved ReceiptStatus = "APPROVED"
	ReceiptStatusRejected ReceiptStatus = "REJECTED"
)

// Settlement is a per-center commission rollup over a billing window.
// Money fields are frozen at aggregation time; only the receipt workflow
// mutates the row afterwards.
type Settlement struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	ServiceCenterID   snowflake.ID      `gorm:"not null;index" json:"service_center_id"`
	PeriodStart       time.Time         `gorm:"not null" json:"period_start"`
	PeriodEnd         time.Time         `gorm:"not null" json:"period_end"`
	TotalCommission   int64             `gorm:"not null;default:0" json:"total_commission"`
	TotalCashbackUsed int64             `gorm:"not null;default:0" json:"total_cashback_used"`
	NetAmount         int64             `gorm:"not null;default:0" json:"net_amount"`
	VisitCount        int               `gorm:"not null;default:0" json:"visit_count"`
	IsPaid            bool              `gorm:"not null;default:false" json:"is_paid"`
	ReceiptStatus     ReceiptStatus     `gorm:"type:text;not null;default:'NONE'" json:"receipt_status"`
	ReceiptRef        *string           `gorm:"type:text" json:"receipt_ref,omitempty"`
	ReceiptMeta       datatypes.JSONMap `json:"receipt_meta,omitempty"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Settlement) TableName() string { return "settlements" }
