package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/drivio/drivio/internal/customer/domain"
	visitdomain "github.com/drivio/drivio/internal/visit/domain"
	"github.com/drivio/drivio/pkg/db/pagination"
)

type visitLineRequest struct {
	ServiceID string `json:"service_id"`
	Price     int64  `json:"price"`
	Details   string `json:"details"`
}

type createVisitRequest struct {
	VehicleID    string             `json:"vehicle_id"`
	CenterID     string             `json:"center_id"`
	Services     []visitLineRequest `json:"services"`
	TotalAmount  *int64             `json:"total_amount"`
	CashbackUsed int64              `json:"cashback_used"`
	Mileage      *int               `json:"mileage"`
	Description  string             `json:"description"`
}

func (s *Server) CreateVisit(c *gin.Context) {
	var req createVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.VehicleID) == "" {
		AbortWithError(c, newValidationError("vehicle_id", "required", "vehicle_id is required"))
		return
	}
	if strings.TrimSpace(req.CenterID) == "" {
		AbortWithError(c, newValidationError("center_id", "required", "center_id is required"))
		return
	}
	if req.CashbackUsed < 0 {
		AbortWithError(c, newValidationError("cashback_used", "negative", "cashback_used must not be negative"))
		return
	}

	lines := make([]visitdomain.VisitLineInput, 0, len(req.Services))
	for _, line := range req.Services {
		lines = append(lines, visitdomain.VisitLineInput{
			ServiceID: strings.TrimSpace(line.ServiceID),
			Price:     line.Price,
			Details:   strings.TrimSpace(line.Details),
		})
	}

	resp, err := s.visitSvc.Create(c.Request.Context(), visitdomain.CreateVisitRequest{
		VehicleID:    strings.TrimSpace(req.VehicleID),
		CenterID:     strings.TrimSpace(req.CenterID),
		Services:     lines,
		TotalAmount:  req.TotalAmount,
		CashbackUsed: req.CashbackUsed,
		Mileage:      req.Mileage,
		Description:  strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListVisits(c *gin.Context) {
	var query struct {
		pagination.Pagination
		VehicleID string `form:"vehicle_id"`
		CenterID  string `form:"center_id"`
		OwnerID   string `form:"owner_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := visitdomain.ListVisitRequest{
		Pagination: query.Pagination,
		VehicleID:  strings.TrimSpace(query.VehicleID),
		CenterID:   strings.TrimSpace(query.CenterID),
		OwnerID:    strings.TrimSpace(query.OwnerID),
	}

	// Regular users only ever see their own history.
	if actorRole(c) == customerdomain.RoleUser {
		req.OwnerID = actorID(c).String()
	}

	resp, err := s.visitSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetVisit(c *gin.Context) {
	resp, err := s.visitSvc.GetByID(c.Request.Context(), visitdomain.GetVisitRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
