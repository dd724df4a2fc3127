// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/validators"
)

// Kind is the value type of a schema field. It decides how filter values
// are parsed and compared.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindStringList
	KindTimeList
)

// Field describes one persisted attribute of T.
type Field[T any] struct {
	// Name is the attribute name clients use (JSON name).
	Name string
	// Column is the database column.
	Column string
	Kind   Kind

	// Generated fields are assigned by the store on insert.
	Generated bool
	// Immutable fields are never changed by an update.
	Immutable bool
	// Hidden fields are dropped by the default projection.
	Hidden bool
	// Internal fields are never filterable, sortable or returned.
	Internal bool

	// Ref returns a pointer to the attribute inside the record.
	Ref func(*T) any
}

func (f Field[T]) writable() bool {
	return !f.Generated && !f.Immutable
}

// value returns the attribute of rec as stored, dereferencing Ref.
func (f Field[T]) value(rec *T) any {
	return reflect.ValueOf(f.Ref(rec)).Elem().Interface()
}

// Schema maps a resource type to its table and attributes.
type Schema[T any] struct {
	Name   string
	Table  string
	Fields []Field[T]

	// Scope always applies to every statement, e.g. hiding inactive users.
	Scope []query.Condition

	// Unique lists field-name groups that must be unique together.
	Unique [][]string

	// VersionField, when set, is incremented on every update.
	VersionField string
}

// IDField and CreatedAtField are expected on every schema.
const (
	IDField        = "id"
	CreatedAtField = "createdAt"
)

func (s *Schema[T]) field(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

func (s *Schema[T]) mustField(name string) Field[T] {
	f, ok := s.field(name)
	if !ok {
		panic(fmt.Sprintf("schema %s has no field %q", s.Name, name))
	}
	return f
}

// Has reports whether name is a field of the schema.
func (s *Schema[T]) Has(name string) bool {
	_, ok := s.field(name)
	return ok
}

// FieldName returns the client-facing name of column.
func (s *Schema[T]) FieldName(column string) string {
	for _, f := range s.Fields {
		if f.Column == column {
			return f.Name
		}
	}
	return column
}

// columns returns every column in declaration order.
func (s *Schema[T]) columns() []string {
	cols := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		cols = append(cols, f.Column)
	}
	return cols
}

// scanTargets returns pointers into rec matching columns().
func (s *Schema[T]) scanTargets(rec *T) []any {
	targets := make([]any, 0, len(s.Fields))
	for _, f := range s.Fields {
		targets = append(targets, f.Ref(rec))
	}
	return targets
}

// Visible returns the names of the fields a projection keeps, in
// declaration order. Internal fields are never visible.
func (s *Schema[T]) Visible(p query.Projection) []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Internal {
			continue
		}
		if f.Name == IDField || p.Keeps(f.Name, f.Hidden) {
			names = append(names, f.Name)
		}
	}
	return names
}

// condition is a query.Condition resolved against the schema with its
// values parsed to the field kind.
type condition[T any] struct {
	field  Field[T]
	op     query.Operator
	values []any
}

// resolved is a query.Spec checked against the schema.
type resolved[T any] struct {
	conditions []condition[T]
	sort       []sortKey[T]
	limit      uint64
	offset     uint64
}

type sortKey[T any] struct {
	field Field[T]
	desc  bool
}

// resolve validates spec against the schema. Unknown or internal fields,
// unparsable values and filters on list fields become a ValidationError.
func (s *Schema[T]) resolve(spec query.Spec) (resolved[T], error) {
	verr := validators.NewValidationError()
	out := resolved[T]{limit: spec.Limit, offset: spec.Offset()}

	for _, c := range spec.Conditions {
		if rc, ok := s.resolveCondition(c, false, verr); ok {
			out.conditions = append(out.conditions, rc)
		}
	}

	for _, k := range spec.Sort {
		f, ok := s.field(k.Field)
		if !ok || f.Internal {
			verr.Add(k.Field, "Cannot sort by unknown field "+k.Field)
			continue
		}
		if f.Kind == KindStringList || f.Kind == KindTimeList {
			verr.Add(k.Field, "Cannot sort by list field "+k.Field)
			continue
		}
		out.sort = append(out.sort, sortKey[T]{field: f, desc: k.Desc})
	}

	for _, name := range spec.Projection.Fields {
		if f, ok := s.field(name); !ok || f.Internal {
			verr.Add(name, "Cannot select unknown field "+name)
		}
	}

	if err := verr.OrNil(); err != nil {
		return resolved[T]{}, err
	}

	out.conditions = append(out.conditions, s.scope()...)
	return out, nil
}

// scope resolves the schema scope. Scope conditions are trusted and may
// reference internal fields.
func (s *Schema[T]) scope(extra ...query.Condition) []condition[T] {
	conditions := append(append([]query.Condition{}, s.Scope...), extra...)

	out := make([]condition[T], 0, len(conditions))
	verr := validators.NewValidationError()
	for _, c := range conditions {
		rc, ok := s.resolveCondition(c, true, verr)
		if !ok {
			panic(fmt.Sprintf("schema %s: invalid scope condition %+v: %v", s.Name, c, verr))
		}
		out = append(out, rc)
	}
	return out
}

func (s *Schema[T]) byID(id int64) []condition[T] {
	return s.scope(query.Eq(IDField, strconv.FormatInt(id, 10)))
}

func (s *Schema[T]) resolveCondition(c query.Condition, trusted bool, verr *validators.ValidationError) (condition[T], bool) {
	f, ok := s.field(c.Field)
	if !ok || (f.Internal && !trusted) {
		verr.Add(c.Field, "Cannot filter by unknown field "+c.Field)
		return condition[T]{}, false
	}
	if f.Kind == KindStringList || f.Kind == KindTimeList {
		verr.Add(c.Field, "Cannot filter by list field "+c.Field)
		return condition[T]{}, false
	}

	values := make([]any, 0, len(c.Values))
	for _, raw := range c.Values {
		v, err := parseValue(f.Kind, raw)
		if err != nil {
			verr.Add(c.Field, fmt.Sprintf("Invalid %s: %s", c.Field, raw))
			return condition[T]{}, false
		}
		values = append(values, v)
	}
	return condition[T]{field: f, op: c.Op, values: values}, true
}

func parseValue(kind Kind, raw string) (any, error) {
	switch kind {
	case KindInt:
		return strconv.ParseInt(raw, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(raw, 64)
	case KindBool:
		return strconv.ParseBool(raw)
	case KindTime:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, raw)
	default:
		return raw, nil
	}
}
