package query

import (
	"math"
	"slices"
)

// Operator is a comparison allowed in a filter condition.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
)

// Valid reports whether op is a supported operator.
func (op Operator) Valid() bool {
	switch op {
	case OpEq, OpGt, OpGte, OpLt, OpLte:
		return true
	default:
		return false
	}
}

// Condition restricts a field. Several Values on OpEq match any of them.
type Condition struct {
	Field  string
	Op     Operator
	Values []string
}

// Eq is a shorthand for a single-value equality condition.
func Eq(field, value string) Condition {
	return Condition{Field: field, Op: OpEq, Values: []string{value}}
}

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Projection selects returned fields. With Exclude set, Fields lists the
// fields to drop instead. An empty projection means the resource default.
type Projection struct {
	Fields  []string
	Exclude bool
}

// IsDefault reports whether no projection was requested.
func (p Projection) IsDefault() bool {
	return len(p.Fields) == 0
}

// Keeps reports whether field survives the projection. Hidden fields are
// dropped by the default projection only.
func (p Projection) Keeps(field string, hidden bool) bool {
	if p.IsDefault() {
		return !hidden
	}
	listed := slices.Contains(p.Fields, field)
	if p.Exclude {
		return !listed
	}
	return listed
}

// Spec is the validated description of a list query.
type Spec struct {
	Conditions []Condition
	Sort       []SortKey
	Projection Projection
	Page       uint64
	Limit      uint64
}

// Offset returns the number of records to skip. It saturates at
// math.MaxInt64, the largest OFFSET Postgres accepts.
func (s Spec) Offset() uint64 {
	if s.Page <= 1 || s.Limit == 0 {
		return 0
	}
	if s.Page-1 > math.MaxInt64/s.Limit {
		return math.MaxInt64
	}
	return (s.Page - 1) * s.Limit
}

// All returns a Spec that matches everything under the default order
// without a page window, used for internal lookups.
func All(conditions ...Condition) Spec {
	return Spec{Conditions: conditions, Sort: DefaultSort()}
}

// DefaultSort orders by creation time, newest first.
func DefaultSort() []SortKey {
	return []SortKey{{Field: "createdAt", Desc: true}}
}
