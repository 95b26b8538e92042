package fopbridge

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jrazmi/eventhub/bridge/scaffolding/errs"
	"github.com/jrazmi/eventhub/core/scaffolding/fop"
	"github.com/jrazmi/eventhub/sdk/validation"
)

// Query reads typed values from a request's query string. Parse failures are collected
// and reported together by Err.
type Query struct {
	values url.Values
	fields errs.FieldErrors
}

func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query()}
}

func (q *Query) fail(field string, err error) {
	q.fields.Add(field, err)
}

// String returns nil for a missing or empty parameter.
func (q *Query) String(key string) *string {
	v := strings.TrimSpace(q.values.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// Strings accepts repeated keys and comma-separated lists.
func (q *Query) Strings(key string) []string {
	var out []string
	for _, raw := range q.values[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func (q *Query) Bool(key string) *bool {
	s := q.String(key)
	if s == nil {
		return nil
	}
	b, err := strconv.ParseBool(*s)
	if err != nil {
		q.fail(key, fmt.Errorf("must be true or false"))
		return nil
	}
	return &b
}

func (q *Query) Int32(key string) *int32 {
	s := q.String(key)
	if s == nil {
		return nil
	}
	n, err := strconv.ParseInt(*s, 10, 32)
	if err != nil {
		q.fail(key, fmt.Errorf("must be a 32-bit integer"))
		return nil
	}
	v := int32(n)
	return &v
}

// Time accepts the layouts understood by validation.ParseFlexibleDate.
func (q *Query) Time(key string) *time.Time {
	s := q.String(key)
	if s == nil {
		return nil
	}
	t, err := validation.ParseFlexibleDate(*s)
	if err != nil {
		q.fail(key, err)
		return nil
	}
	return &t
}

// Page reads limit and cursor.
func (q *Query) Page() fop.PageStringCursor {
	page, err := fop.ParsePageStringCursor(q.values.Get("limit"), q.values.Get("cursor"))
	if err != nil {
		q.fail("limit", err)
		return fop.NewPage(fop.DefaultLimit)
	}
	return page
}

// Order reads "order=field[,direction]" against the public field names in fields.
func (q *Query) Order(fields map[string]string, defaultOrder fop.By) fop.By {
	by, err := fop.ParseOrder(fields, q.values.Get("order"), defaultOrder)
	if err != nil {
		q.fail("order", err)
		return defaultOrder
	}
	return by
}

// Aggregate reads _count, _min, _max, _avg and _sum. Count defaults to true when nothing
// else was requested.
func (q *Query) Aggregate() fop.AggregateSpec {
	spec := fop.AggregateSpec{
		Min: q.Strings("_min"),
		Max: q.Strings("_max"),
		Avg: q.Strings("_avg"),
		Sum: q.Strings("_sum"),
	}
	if c := q.Bool("_count"); c != nil {
		spec.Count = *c
	}
	if spec.Empty() {
		spec.Count = true
	}
	return spec
}

// GroupBy reads the "by" field list.
func (q *Query) GroupBy() []string {
	by := q.Strings("by")
	if len(by) == 0 {
		q.fail("by", errors.New("at least one field is required"))
	}
	return by
}

// Err returns an InvalidArgument error listing every bad parameter, or nil.
func (q *Query) Err() *errs.Error {
	if len(q.fields) == 0 {
		return nil
	}
	return q.fields.ToError()
}
