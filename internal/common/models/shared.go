package models

import (
	"math"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 1000
)

// Pagination is returned next to every paged listing
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// PageQuery holds normalized paging and sorting input
type PageQuery struct {
	Page      int
	Limit     int
	SortField string
	SortOrder string
}

// Normalize clamps paging values and whitelists the sort column.
func (q PageQuery) Normalize(validSortFields []string) PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	valid := false
	for _, f := range validSortFields {
		if f == q.SortField {
			valid = true
			break
		}
	}
	if !valid && len(validSortFields) > 0 {
		q.SortField = validSortFields[0]
	}

	order := strings.ToUpper(q.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	q.SortOrder = order
	return q
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// OrderBy renders the whitelisted sort as a gorm Order clause.
func (q PageQuery) OrderBy() string {
	return q.SortField + " " + q.SortOrder
}
