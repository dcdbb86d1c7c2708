package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Vehicle is a customer-owned car. Mileage and the last-service markers
// are maintained by the visit flow; everything else is owner-edited.
type Vehicle struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID            snowflake.ID `gorm:"not null;index" json:"owner_id"`
	VIN                *string      `gorm:"type:text" json:"vin,omitempty"`
	Brand              string       `gorm:"type:text;not null" json:"brand"`
	Model              string       `gorm:"type:text;not null" json:"model"`
	Year               int          `gorm:"not null" json:"year"`
	PlateNumber        string       `gorm:"type:text;not null" json:"plate_number"`
	Mileage            *int         `json:"mileage,omitempty"`
	LastServiceAt      *time.Time   `json:"last_service_at,omitempty"`
	LastServiceMileage *int         `json:"last_service_mileage,omitempty"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Vehicle) TableName() string { return "vehicles" }

// Label is the human identification used in notifications.
func (v Vehicle) Label() string {
	return v.Brand + " " + v.Model
}

var ErrNotFound = errors.New("not_found")
