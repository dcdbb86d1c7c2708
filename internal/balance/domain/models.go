package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EntryType tags the direction of a cashback ledger entry.
type EntryType string

const (
	EntryTypeCashbackEarn  EntryType = "CASHBACK_EARN"
	EntryTypeCashbackSpend EntryType = "CASHBACK_SPEND"
)

// Entry is one append-only cashback ledger record. Positive amounts earn,
// negative amounts spend; a customer's balance is the running sum of
// their entries.
type Entry struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CustomerID  snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	Amount      int64         `gorm:"not null" json:"amount"`
	Type        EntryType     `gorm:"type:text;not null" json:"type"`
	Description string        `gorm:"type:text;not null" json:"description"`
	VisitID     *snowflake.ID `gorm:"index" json:"visit_id,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "balance_entries" }
