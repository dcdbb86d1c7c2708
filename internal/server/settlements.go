package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	settlementdomain "github.com/drivio/drivio/internal/settlement/domain"
	"github.com/drivio/drivio/pkg/db/pagination"
)

type aggregateRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (s *Server) AggregateSettlements(c *gin.Context) {
	var req aggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	start, err := parseDate(req.PeriodStart, false)
	if err != nil {
		AbortWithError(c, newValidationError("period_start", "invalid_date", "invalid period_start"))
		return
	}
	end, err := parseDate(req.PeriodEnd, true)
	if err != nil {
		AbortWithError(c, newValidationError("period_end", "invalid_date", "invalid period_end"))
		return
	}

	resp, err := s.settlementSvc.Aggregate(c.Request.Context(), settlementdomain.AggregateRequest{
		PeriodStart: start,
		PeriodEnd:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// parseDate accepts either a date or a full RFC 3339 timestamp. Plain
// dates expand to the inclusive edge of the day they name.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func (s *Server) ListSettlements(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CenterID   string `form:"center_id"`
		UnpaidOnly bool   `form:"unpaid_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settlementSvc.List(c.Request.Context(), settlementdomain.ListRequest{
		Pagination: query.Pagination,
		CenterID:   strings.TrimSpace(query.CenterID),
		UnpaidOnly: query.UnpaidOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSettlement(c *gin.Context) {
	resp, err := s.settlementSvc.GetByID(c.Request.Context(), settlementdomain.GetRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type attachReceiptRequest struct {
	SettlementID string `json:"settlement_id"`
	ReceiptRef   string `json:"receipt_ref"`
	FileName     string `json:"file_name"`
}

func (s *Server) AttachReceipt(c *gin.Context) {
	var req attachReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settlementSvc.AttachReceipt(c.Request.Context(), settlementdomain.AttachReceiptRequest{
		ManagerID:    actorID(c).String(),
		SettlementID: strings.TrimSpace(req.SettlementID),
		ReceiptRef:   strings.TrimSpace(req.ReceiptRef),
		FileName:     strings.TrimSpace(req.FileName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type reviewRequest struct {
	Approve bool `json:"approve"`
}

func (s *Server) ReviewReceipt(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.settlementSvc.Review(c.Request.Context(), settlementdomain.ReviewRequest{
		ID:      strings.TrimSpace(c.Param("id")),
		Approve: req.Approve,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadStatement(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	reader, err := s.statementSvc.Generate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="statement-`+id+`.pdf"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
