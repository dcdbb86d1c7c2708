package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
	settlementdomain "github.com/drivio/drivio/internal/settlement/domain"
	visitdomain "github.com/drivio/drivio/internal/visit/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Cap     *int64            `json:"cap,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErrs *ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErrs.Errors,
		}
	}

	var capErr *visitdomain.RedemptionCapError
	if errors.As(err, &capErr) {
		limit := capErr.Cap
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "redemption_cap_exceeded",
			Message: "cashback redemption exceeds half of the transaction total",
			Cap:     &limit,
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "authentication required",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "insufficient role",
		}
	case errors.Is(err, visitdomain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "insufficient_balance",
			Message: "cashback balance is lower than the requested redemption",
		}
	case isValidation(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "request", Code: err.Error(), Message: err.Error()},
			},
		}
	case isNotFound(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "resource not found",
		}
	case isConflict(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	}

	// Anything else, storage failures included, stays opaque.
	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

func isValidation(err error) bool {
	for _, target := range []error{
		catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidRuleType,
		catalogdomain.ErrInvalidRuleValue,
		catalogdomain.ErrInvalidID,
		centerdomain.ErrInvalidName,
		centerdomain.ErrInvalidType,
		centerdomain.ErrInvalidCity,
		centerdomain.ErrInvalidPercent,
		centerdomain.ErrInvalidID,
		visitdomain.ErrInvalidID,
		visitdomain.ErrAmountRequired,
		visitdomain.ErrServicesRequired,
		visitdomain.ErrInvalidLinePrice,
		settlementdomain.ErrInvalidID,
		settlementdomain.ErrInvalidPeriod,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	for _, target := range []error{
		catalogdomain.ErrNotFound,
		centerdomain.ErrNotFound,
		centerdomain.ErrOverrideNotFound,
		centerdomain.ErrNoManagedCenter,
		visitdomain.ErrNotFound,
		visitdomain.ErrVehicleNotFound,
		visitdomain.ErrOwnerNotFound,
		visitdomain.ErrCenterNotFound,
		settlementdomain.ErrNotFound,
		settlementdomain.ErrNoManagedCenter,
		gorm.ErrRecordNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isConflict(err error) bool {
	for _, target := range []error{
		catalogdomain.ErrNameTaken,
		catalogdomain.ErrServiceReferenced,
		centerdomain.ErrManagerTaken,
		settlementdomain.ErrAlreadySubmitted,
		settlementdomain.ErrAlreadyPaid,
		settlementdomain.ErrNotPending,
		settlementdomain.ErrNoVisits,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
