package pagination

import "gorm.io/gorm"

type Pagination struct {
	Page  int `form:"page,default=1" validate:"gte=1"`
	Limit int `form:"limit,default=20" validate:"gte=1,lte=100"`
}

type PageInfo struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
}

func (p Pagination) Normalize() Pagination {
	out := p
	if out.Page < 1 {
		out.Page = 1
	}
	if out.Limit < 1 {
		out.Limit = 20
	}
	if out.Limit > 100 {
		out.Limit = 100
	}
	return out
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Apply adds OFFSET/LIMIT to the statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	n := p.Normalize()
	return stmt.Offset(n.Offset()).Limit(n.Limit)
}

// BuildPageInfo computes page metadata for a total row count.
func BuildPageInfo(total int64, page Pagination) PageInfo {
	n := page.Normalize()
	pages := int((total + int64(n.Limit) - 1) / int64(n.Limit))
	if pages < 1 {
		pages = 1
	}
	return PageInfo{
		Total:      total,
		Page:       n.Page,
		TotalPages: pages,
	}
}
