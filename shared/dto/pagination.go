package dto

import "math"

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"totalCount"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
	NextPage   *int `json:"nextPage"`
	PrevPage   *int `json:"prevPage"`
}

// NewPagination describes page `page` of `total` items split into pages of `limit`.
// An empty result has zero pages.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if total > 0 && limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	p := Pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}

	if p.HasNext {
		next := page + 1
		p.NextPage = &next
	}

	if p.HasPrev {
		prev := page - 1
		p.PrevPage = &prev
	}

	return p
}
