package fop

import (
	"errors"
	"fmt"
)

// ErrUnknownAggregateField is returned when an aggregate or group field is not allowed.
var ErrUnknownAggregateField = errors.New("unknown aggregate field")

// AggregateSpec selects the aggregates to compute. Field names are the public names of
// the entity's aggregate whitelist.
type AggregateSpec struct {
	Count bool     `json:"_count,omitempty"`
	Min   []string `json:"_min,omitempty"`
	Max   []string `json:"_max,omitempty"`
	Avg   []string `json:"_avg,omitempty"`
	Sum   []string `json:"_sum,omitempty"`
}

// Empty reports whether nothing was requested.
func (s AggregateSpec) Empty() bool {
	return !s.Count && len(s.Min) == 0 && len(s.Max) == 0 && len(s.Avg) == 0 && len(s.Sum) == 0
}

// Resolve maps every public field name to its column. Min and Max may use any field in
// columns; Avg and Sum are restricted to numeric.
func (s AggregateSpec) Resolve(columns map[string]string, numeric map[string]bool) (AggregateSpec, error) {
	out := AggregateSpec{Count: s.Count}

	var err error
	if out.Min, err = resolveFields(s.Min, columns, nil, false); err != nil {
		return AggregateSpec{}, fmt.Errorf("_min: %w", err)
	}
	if out.Max, err = resolveFields(s.Max, columns, nil, false); err != nil {
		return AggregateSpec{}, fmt.Errorf("_max: %w", err)
	}
	if out.Avg, err = resolveFields(s.Avg, columns, numeric, true); err != nil {
		return AggregateSpec{}, fmt.Errorf("_avg: %w", err)
	}
	if out.Sum, err = resolveFields(s.Sum, columns, numeric, true); err != nil {
		return AggregateSpec{}, fmt.Errorf("_sum: %w", err)
	}

	return out, nil
}

func resolveFields(fields []string, columns map[string]string, numeric map[string]bool, numericOnly bool) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := columns[f]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAggregateField, f)
		}
		if numericOnly && !numeric[f] {
			return nil, fmt.Errorf("%w: %s is not numeric", ErrUnknownAggregateField, f)
		}
		out = append(out, col)
	}
	return out, nil
}

// AggregateResult holds computed aggregates keyed by column. Avg and Sum are nil when
// no row matched.
type AggregateResult struct {
	Count int64               `json:"_count"`
	Min   map[string]any      `json:"_min,omitempty"`
	Max   map[string]any      `json:"_max,omitempty"`
	Avg   map[string]*float64 `json:"_avg,omitempty"`
	Sum   map[string]*float64 `json:"_sum,omitempty"`
}

// Group is one row of a group-by: the key values by column and the row count.
type Group struct {
	Keys  map[string]any `json:"keys"`
	Count int64          `json:"_count"`
}

// ResolveGroupBy maps public group field names to columns.
func ResolveGroupBy(fields []string, columns map[string]string) ([]string, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: at least one group field is required", ErrUnknownAggregateField)
	}
	return resolveFields(fields, columns, nil, false)
}
