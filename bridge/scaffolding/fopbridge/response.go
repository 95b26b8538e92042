// Package fopbridge translates between HTTP query strings and the fop paging, ordering
// and aggregate types, and holds the shared response envelopes.
package fopbridge

import (
	"encoding/json"
	"net/http"

	"github.com/jrazmi/eventhub/core/scaffolding/fop"
)

// RecordResponse wraps a single record. A non-zero status overrides 200.
type RecordResponse[T any] struct {
	Record T   `json:"record"`
	status int
}

func NewRecordResponse[T any](record T) RecordResponse[T] {
	return RecordResponse[T]{Record: record}
}

// NewCreatedResponse wraps a record that was just created.
func NewCreatedResponse[T any](record T) RecordResponse[T] {
	return RecordResponse[T]{Record: record, status: http.StatusCreated}
}

func (r RecordResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

func (r RecordResponse[T]) HTTPStatus() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// RecordsResponse wraps an unpaged list.
type RecordsResponse[T any] struct {
	Records []T `json:"records"`
}

func NewRecordsResponse[T any](records []T) RecordsResponse[T] {
	if records == nil {
		records = []T{}
	}
	return RecordsResponse[T]{Records: records}
}

func (r RecordsResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(r)
	return data, "application/json", err
}

// PaginatedResponse is a keyset page of records.
type PaginatedResponse[T any] struct {
	Records  []T                      `json:"records"`
	PageInfo fop.PageInfoStringCursor `json:"pageInfo"`
}

// NewPaginatedResponse builds the page info for records fetched with page. The next
// cursor is taken from the last record's order and pk columns.
func NewPaginatedResponse[T any](records []T, page fop.PageStringCursor, orderColumn, pkColumn string) (PaginatedResponse[T], error) {
	if records == nil {
		records = []T{}
	}
	info, err := fop.NextPageInfo(records, page, orderColumn, pkColumn)
	if err != nil {
		return PaginatedResponse[T]{}, err
	}
	return PaginatedResponse[T]{Records: records, PageInfo: info}, nil
}

func (p PaginatedResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(p)
	return data, "application/json", err
}

// CountResponse carries the result of a count.
type CountResponse struct {
	Count int64 `json:"count"`
}

func (c CountResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(c)
	return data, "application/json", err
}

// AggregateResponse carries an aggregate result.
type AggregateResponse struct {
	fop.AggregateResult
}

func (a AggregateResponse) Encode() ([]byte, string, error) {
	data, err := json.Marshal(a.AggregateResult)
	return data, "application/json", err
}

// GroupsResponse carries group-by rows.
type GroupsResponse struct {
	Groups []fop.Group `json:"groups"`
}

func (g GroupsResponse) Encode() ([]byte, string, error) {
	if g.Groups == nil {
		g.Groups = []fop.Group{}
	}
	data, err := json.Marshal(g)
	return data, "application/json", err
}
