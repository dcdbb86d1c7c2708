package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleUser          Role = "USER"
	RoleAdmin         Role = "ADMIN"
	RoleCenterManager Role = "SC_MANAGER"
)

// Customer is a car owner. Balance caches the running sum of the
// customer's cashback ledger entries; the ledger is the source of truth
// and the cache is only mutated inside the visit transaction.
type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Phone     string       `gorm:"type:text;not null;uniqueIndex" json:"phone"`
	Email     *string      `gorm:"type:text" json:"email,omitempty"`
	Name      *string      `gorm:"type:text" json:"name,omitempty"`
	Role      Role         `gorm:"type:text;not null;default:'USER'" json:"role"`
	Balance   int64        `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

var (
	ErrNotFound            = errors.New("not_found")
	ErrInsufficientBalance = errors.New("insufficient_balance")
)
