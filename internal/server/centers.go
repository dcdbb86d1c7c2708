package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
	centerdomain "github.com/drivio/drivio/internal/center/domain"
)

type createCenterRequest struct {
	Name              string                `json:"name"`
	Type              centerdomain.CenterType `json:"type"`
	Description       string                `json:"description"`
	City              string                `json:"city"`
	Phone             string                `json:"phone"`
	CommissionPercent float64               `json:"commission_percent"`
	DiscountPercent   float64               `json:"discount_percent"`
	ManagerID         string                `json:"manager_id"`
}

func (s *Server) CreateCenter(c *gin.Context) {
	var req createCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.centerSvc.Create(c.Request.Context(), centerdomain.CreateCenterRequest{
		Name:              strings.TrimSpace(req.Name),
		Type:              req.Type,
		Description:       strings.TrimSpace(req.Description),
		City:              strings.TrimSpace(req.City),
		Phone:             strings.TrimSpace(req.Phone),
		CommissionPercent: req.CommissionPercent,
		DiscountPercent:   req.DiscountPercent,
		ManagerID:         strings.TrimSpace(req.ManagerID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCenter(c *gin.Context) {
	resp, err := s.centerSvc.GetByID(c.Request.Context(), centerdomain.GetCenterRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCenters(c *gin.Context) {
	resp, err := s.centerSvc.List(c.Request.Context(), centerdomain.ListCenterRequest{
		Type: strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CenterFinances resolves the acting manager's own center; admins use
// the settlement endpoints instead.
func (s *Server) CenterFinances(c *gin.Context) {
	resp, err := s.centerSvc.Finances(c.Request.Context(), actorID(c).String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setOverrideRequest struct {
	Price           *int64                  `json:"price"`
	IsFlexPrice     bool                    `json:"is_flex_price"`
	CommissionType  *catalogdomain.RuleType `json:"commission_type"`
	CommissionValue *float64                `json:"commission_value"`
	CashbackType    *catalogdomain.RuleType `json:"cashback_type"`
	CashbackValue   *float64                `json:"cashback_value"`
}

func (s *Server) SetCenterOverride(c *gin.Context) {
	var req setOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.centerSvc.SetOverride(c.Request.Context(), centerdomain.SetOverrideRequest{
		CenterID:        strings.TrimSpace(c.Param("id")),
		ServiceID:       strings.TrimSpace(c.Param("serviceID")),
		Price:           req.Price,
		IsFlexPrice:     req.IsFlexPrice,
		CommissionType:  req.CommissionType,
		CommissionValue: req.CommissionValue,
		CashbackType:    req.CashbackType,
		CashbackValue:   req.CashbackValue,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCenterOverrides(c *gin.Context) {
	resp, err := s.centerSvc.ListOverrides(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCenterOverride(c *gin.Context) {
	err := s.centerSvc.DeleteOverride(c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		strings.TrimSpace(c.Param("serviceID")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
