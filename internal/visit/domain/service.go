package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/drivio/drivio/pkg/db/pagination"
)

type VisitLineInput struct {
	ServiceID string
	Price     int64
	Details   string
}

type CreateVisitRequest struct {
	VehicleID    string
	CenterID     string
	Services     []VisitLineInput
	TotalAmount  *int64
	CashbackUsed int64
	Mileage      *int
	Description  string
}

// CreateVisitResponse reports the committed visit plus the service IDs
// that could not be resolved against the catalog and were dropped from
// the transaction.
type CreateVisitResponse struct {
	Visit             Visit          `json:"visit"`
	Services          []VisitService `json:"services"`
	SkippedServiceIDs []string       `json:"skipped_service_ids,omitempty"`
}

type GetVisitRequest struct {
	ID string
}

type VisitDetail struct {
	Visit    Visit          `json:"visit"`
	Services []VisitService `json:"services"`
}

type ListVisitRequest struct {
	pagination.Pagination
	VehicleID string
	CenterID  string
	OwnerID   string
}

type ListVisitResponse struct {
	pagination.PageInfo
	Visits []VisitDetail `json:"visits"`
}

type VisitEngine interface {
	Create(context.Context, CreateVisitRequest) (CreateVisitResponse, error)
	GetByID(context.Context, GetVisitRequest) (VisitDetail, error)
	List(context.Context, ListVisitRequest) (ListVisitResponse, error)
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrVehicleNotFound     = errors.New("vehicle_not_found")
	ErrOwnerNotFound       = errors.New("owner_not_found")
	ErrCenterNotFound      = errors.New("center_not_found")
	ErrAmountRequired      = errors.New("amount_required")
	ErrServicesRequired    = errors.New("services_required")
	ErrInvalidLinePrice    = errors.New("invalid_line_price")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrPersistence         = errors.New("persistence_error")
)

// RedemptionCapError rejects a redeem request above half of the
// transaction total. Cap carries the exact limit so callers can surface
// it to the user.
type RedemptionCapError struct {
	Cap int64
}

func (e *RedemptionCapError) Error() string {
	return fmt.Sprintf("redemption_cap_exceeded: max %d", e.Cap)
}
