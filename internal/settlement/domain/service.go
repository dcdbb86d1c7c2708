package domain

import (
	"context"
	"errors"
	"time"

	"github.com/drivio/drivio/pkg/db/pagination"
)

type AggregateRequest struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
}

type AggregateResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type ListRequest struct {
	pagination.Pagination
	CenterID   string
	UnpaidOnly bool
}

type ListResponse struct {
	pagination.PageInfo
	Settlements []Settlement `json:"settlements"`
}

type GetRequest struct {
	ID string
}

// AttachReceiptRequest is the manager-side payment proof submission.
// SettlementID is optional: when empty the receipt covers every
// unsubmitted unpaid settlement of the manager's center, and when none
// exist one is synthesized from the current month's visits.
type AttachReceiptRequest struct {
	ManagerID    string
	SettlementID string
	ReceiptRef   string
	FileName     string
}

type AttachReceiptResponse struct {
	ReceiptRef  string       `json:"receipt_ref"`
	Settlements []Settlement `json:"settlements"`
}

type ReviewRequest struct {
	ID      string
	Approve bool
}

type SettlementService interface {
	Aggregate(context.Context, AggregateRequest) (AggregateResponse, error)
	List(context.Context, ListRequest) (ListResponse, error)
	GetByID(context.Context, GetRequest) (Settlement, error)
	AttachReceipt(context.Context, AttachReceiptRequest) (AttachReceiptResponse, error)
	Review(context.Context, ReviewRequest) (Settlement, error)
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidPeriod    = errors.New("invalid_period")
	ErrNotFound         = errors.New("not_found")
	ErrNoManagedCenter  = errors.New("no_managed_center")
	ErrNoVisits         = errors.New("no_visits")
	ErrAlreadySubmitted = errors.New("receipt_already_submitted")
	ErrAlreadyPaid      = errors.New("already_paid")
	ErrNotPending       = errors.New("receipt_not_pending")
)
