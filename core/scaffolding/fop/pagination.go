package fop

import (
	"fmt"
	"strconv"
)

// Paging bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageStringCursor represents the requested items per page and the position to start after.
type PageStringCursor struct {
	Limit  int
	Cursor string
}

// PageInfoStringCursor returns pagination data. Every slice query should return page info.
type PageInfoStringCursor struct {
	HasPrev        bool   `json:"hasPrev,omitempty"`
	HasNext        bool   `json:"hasNext,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	PreviousCursor string `json:"previousCursor,omitempty"`
	NextCursor     string `json:"nextCursor,omitempty"`
	PageTotal      int    `json:"pageTotal,omitempty"`
}

// NewPage returns a first page of the given size, clamped to the allowed range.
func NewPage(limit int) PageStringCursor {
	return PageStringCursor{Limit: ClampLimit(limit)}
}

// ClampLimit applies the default to zero or negative limits and caps large ones.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func ParsePageStringCursor(pageLimit string, cursor string) (PageStringCursor, error) {
	limit := DefaultLimit

	if pageLimit != "" {
		var err error
		limit, err = strconv.Atoi(pageLimit)
		if err != nil {
			return PageStringCursor{}, fmt.Errorf("page limit conversion: %w", err)
		}
	}

	if limit <= 0 {
		return PageStringCursor{}, fmt.Errorf("rows value too small, must be larger than 0")
	}

	if limit > MaxLimit {
		return PageStringCursor{}, fmt.Errorf("rows value too large, must be less than %d", MaxLimit)
	}

	return PageStringCursor{
		Limit:  limit,
		Cursor: cursor,
	}, nil
}

// NextPageInfo builds the page info for records fetched with page. The next cursor is
// derived from the last record using the order column and primary key column.
func NextPageInfo[T any](records []T, page PageStringCursor, orderColumn, pkColumn string) (PageInfoStringCursor, error) {
	info := PageInfoStringCursor{
		HasPrev:        page.Cursor != "",
		Limit:          page.Limit,
		PreviousCursor: page.Cursor,
		PageTotal:      len(records),
	}
	if len(records) == 0 || len(records) < page.Limit {
		return info, nil
	}

	next, err := EncodeRecordCursor(records[len(records)-1], orderColumn, pkColumn)
	if err != nil {
		return info, fmt.Errorf("encode next cursor: %w", err)
	}
	info.HasNext = true
	info.NextCursor = next
	return info, nil
}
