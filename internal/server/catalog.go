package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/drivio/drivio/internal/catalog/domain"
)

type createCatalogServiceRequest struct {
	Name            string                 `json:"name"`
	Category        string                 `json:"category"`
	CommissionType  catalogdomain.RuleType `json:"commission_type"`
	CommissionValue float64                `json:"commission_value"`
	CashbackType    catalogdomain.RuleType `json:"cashback_type"`
	CashbackValue   float64                `json:"cashback_value"`
}

func (s *Server) CreateCatalogService(c *gin.Context) {
	var req createCatalogServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Create(c.Request.Context(), catalogdomain.CreateServiceRequest{
		Name:            strings.TrimSpace(req.Name),
		Category:        strings.TrimSpace(req.Category),
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

type updateCatalogServiceRequest struct {
	Category        *string                 `json:"category"`
	CommissionType  *catalogdomain.RuleType `json:"commission_type"`
	CommissionValue *float64                `json:"commission_value"`
	CashbackType    *catalogdomain.RuleType `json:"cashback_type"`
	CashbackValue   *float64                `json:"cashback_value"`
}

func (s *Server) UpdateCatalogService(c *gin.Context) {
	var req updateCatalogServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Update(c.Request.Context(), catalogdomain.UpdateServiceRequest{
		ID:              strings.TrimSpace(c.Param("id")),
		Category:        req.Category,
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

func (s *Server) GetCatalogService(c *gin.Context) {
	resp, err := s.catalogSvc.GetByID(c.Request.Context(), catalogdomain.GetServiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCatalog(c *gin.Context) {
	resp, err := s.catalogSvc.List(c.Request.Context(), catalogdomain.ListServiceRequest{
		Category: strings.TrimSpace(c.Query("category")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCatalogService(c *gin.Context) {
	if err := s.catalogSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
