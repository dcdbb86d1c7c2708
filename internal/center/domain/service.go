package domain

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
)

type CreateCenterRequest struct {
	Name              string
	Type              CenterType
	Description       string
	City              string
	Phone             string
	CommissionPercent float64
	DiscountPercent   float64
	ManagerID         string
}

type GetCenterRequest struct {
	ID string
}

type ListCenterRequest struct {
	Type string
}

type SetOverrideRequest struct {
	CenterID        string
	ServiceID       string
	Price           *int64
	IsFlexPrice     bool
	CommissionType  *catalogdomain.RuleType
	CommissionValue *float64
	CashbackType    *catalogdomain.RuleType
	CashbackValue   *float64
}

// FinancesResponse is the manager-facing money view: what the center
// still owes the platform plus the current month's activity.
type FinancesResponse struct {
	UnpaidAmount int64             `json:"unpaid_amount"`
	CurrentMonth MonthRollup       `json:"current_month"`
	Settlements  []SettlementBrief `json:"settlements"`
}

type MonthRollup struct {
	Total      int64 `json:"total"`
	VisitCount int   `json:"visit_count"`
}

type SettlementBrief struct {
	ID            string    `json:"id"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	Amount        int64     `json:"amount"`
	IsPaid        bool      `json:"is_paid"`
	ReceiptStatus string    `json:"receipt_status"`
}

type CenterService interface {
	Create(context.Context, CreateCenterRequest) (ServiceCenter, error)
	GetByID(context.Context, GetCenterRequest) (ServiceCenter, error)
	List(context.Context, ListCenterRequest) ([]ServiceCenter, error)
	SetOverride(context.Context, SetOverrideRequest) (ServiceCenterService, error)
	ListOverrides(ctx context.Context, centerID string) ([]ServiceCenterService, error)
	DeleteOverride(ctx context.Context, centerID, serviceID string) error
	Finances(ctx context.Context, managerID string) (FinancesResponse, error)
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidType      = errors.New("invalid_type")
	ErrInvalidCity      = errors.New("invalid_city")
	ErrInvalidPercent   = errors.New("invalid_percent")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrOverrideNotFound = errors.New("override_not_found")
	ErrManagerTaken     = errors.New("manager_taken")
	ErrNoManagedCenter  = errors.New("no_managed_center")
)
