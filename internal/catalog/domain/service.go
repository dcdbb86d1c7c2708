package domain

import (
	"context"
	"errors"
)

type CreateServiceRequest struct {
	Name            string
	Category        string
	CommissionType  RuleType
	CommissionValue float64
	CashbackType    RuleType
	CashbackValue   float64
}

type UpdateServiceRequest struct {
	ID              string
	Category        *string
	CommissionType  *RuleType
	CommissionValue *float64
	CashbackType    *RuleType
	CashbackValue   *float64
}

type GetServiceRequest struct {
	ID string
}

type ListServiceRequest struct {
	Category string
}

type CatalogService interface {
	Create(context.Context, CreateServiceRequest) (Service, error)
	Update(context.Context, UpdateServiceRequest) (Service, error)
	GetByID(context.Context, GetServiceRequest) (Service, error)
	List(context.Context, ListServiceRequest) ([]Service, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidRuleType   = errors.New("invalid_rule_type")
	ErrInvalidRuleValue  = errors.New("invalid_rule_value")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrNameTaken         = errors.New("name_taken")
	ErrServiceReferenced = errors.New("service_referenced")
)
