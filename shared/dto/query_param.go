package dto

import (
	"net/http"
	"rentfy/shared/constant"
	"rentfy/shared/failure"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty,min=1"`
	Limit   int    `json:"limit"    validate:"omitempty,min=1,max=100"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest populates QueryParams from the HTTP request.
// Page defaults to 1 and limit to 10. A page below 1 or a limit outside 1..100
// yields failure.InvalidPageParam or failure.InvalidLimitParam.
//
//	q := dto.QueryParams{}
//	if err := q.FromRequest(req); err != nil {
//		response.WithError(w, err)
//	}
//
// SortBy is never read from the request; services choose their own ordering column.
func (q *QueryParams) FromRequest(r *http.Request) error {
	queryParams := r.URL.Query()

	q.Page = constant.DefaultValuePage
	q.Limit = constant.DefaultValueLimit

	if page := queryParams.Get(constant.RequestParamPage); page != "" {
		pageInt, err := strconv.Atoi(page)
		if err != nil || pageInt < 1 {
			return failure.InvalidPageParam
		}

		q.Page = pageInt
	}

	if limit := queryParams.Get(constant.RequestParamLimit); limit != "" {
		limitInt, err := strconv.Atoi(limit)
		if err != nil || limitInt < 1 || limitInt > constant.MaxValueLimit {
			return failure.InvalidLimitParam
		}

		q.Limit = limitInt
	}

	if sortDir := strings.ToUpper(queryParams.Get(constant.RequestParamSortDir)); sortDir == SortDirAsc || sortDir == SortDirDesc {
		q.SortDir = sortDir
	}

	return nil
}

// Validate checks page and limit bounds for params built outside of an HTTP request.
func (q *QueryParams) Validate() error {
	if q.Page < 1 {
		return failure.InvalidPageParam
	}

	if q.Limit < 1 || q.Limit > constant.MaxValueLimit {
		return failure.InvalidLimitParam
	}

	return nil
}

// Newest orders results by the given creation column, latest first.
func (q *QueryParams) Newest(column string) {
	q.SortBy = column
	q.SortDir = SortDirDesc
}
