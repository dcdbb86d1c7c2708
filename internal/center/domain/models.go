package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
)

// CenterType drives the visit transaction mode: full-service centers
// record itemized lines, shops and washes settle on a flat amount.
type CenterType string

const (
	CenterTypeServiceCenter CenterType = "SERVICE_CENTER"
	CenterTypeAutoShop      CenterType = "AUTO_SHOP"
	CenterTypeCarWash       CenterType = "CAR_WASH"
)

type ServiceCenter struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name              string        `gorm:"type:text;not null" json:"name"`
	Type              CenterType    `gorm:"type:text;not null;default:'SERVICE_CENTER'" json:"type"`
	Description       string        `gorm:"type:text" json:"description,omitempty"`
	City              string        `gorm:"type:text;not null" json:"city"`
	Phone             string        `gorm:"type:text" json:"phone,omitempty"`
	Rating            float64       `gorm:"not null;default:0" json:"rating"`
	IsActive          bool          `gorm:"not null;default:true" json:"is_active"`
	CommissionPercent float64       `gorm:"not null;default:0" json:"commission_percent"`
	DiscountPercent   float64       `gorm:"not null;default:0" json:"discount_percent"`
	ManagerID         *snowflake.ID `gorm:"uniqueIndex" json:"manager_id,omitempty"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ServiceCenter) TableName() string { return "service_centers" }

// ServiceCenterService links a center to a catalog service. A row may pin
// a price (or mark it flexible) and may replace the catalog commission or
// cashback rule for this pairing; nil rule fields fall back to the catalog
// default. At most one row exists per (center, service) pair.
type ServiceCenterService struct {
	ID              snowflake.ID          `gorm:"primaryKey" json:"id"`
	ServiceCenterID snowflake.ID          `gorm:"not null;index;uniqueIndex:ux_center_service,priority:1" json:"service_center_id"`
	ServiceID       snowflake.ID          `gorm:"not null;index;uniqueIndex:ux_center_service,priority:2" json:"service_id"`
	Price           *int64                `json:"price,omitempty"`
	IsFlexPrice     bool                  `gorm:"not null;default:false" json:"is_flex_price"`
	CommissionType  *catalogdomain.RuleType `gorm:"type:text" json:"commission_type,omitempty"`
	CommissionValue *float64              `json:"commission_value,omitempty"`
	CashbackType    *catalogdomain.RuleType `gorm:"type:text" json:"cashback_type,omitempty"`
	CashbackValue   *float64              `json:"cashback_value,omitempty"`
	CreatedAt       time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ServiceCenterService) TableName() string { return "service_center_services" }
