// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-tours/internal/query"
)

// memoryTable holds the rows of one in-memory table.
type memoryTable[T any] struct {
	mu     sync.RWMutex
	rows   map[int64]T
	nextID int64
}

func newMemoryTable[T any]() *memoryTable[T] {
	return &memoryTable[T]{rows: make(map[int64]T)}
}

// memoryRepository is the in-memory [ResourceRepository].
type memoryRepository[T any] struct {
	table  *memoryTable[T]
	schema *Schema[T]
	now    func() time.Time
}

// NewMemoryRepository returns an empty in-memory [ResourceRepository].
func NewMemoryRepository[T any](schema *Schema[T]) ResourceRepository[T] {
	return newMemoryRepository(newMemoryTable[T](), schema)
}

func newMemoryRepository[T any](table *memoryTable[T], schema *Schema[T]) *memoryRepository[T] {
	return &memoryRepository[T]{table: table, schema: schema, now: nowFunc}
}

func (r *memoryRepository[T]) Schema() *Schema[T] {
	return r.schema
}

func (r *memoryRepository[T]) id(rec *T) int64 {
	return reflect.ValueOf(r.schema.mustField(IDField).Ref(rec)).Elem().Int()
}

func (r *memoryRepository[T]) Find(ctx context.Context, spec query.Spec) ([]T, error) {
	res, err := r.schema.resolve(spec)
	if err != nil {
		return nil, err
	}

	r.table.mu.RLock()
	results := make([]T, 0, len(r.table.rows))
	for _, rec := range r.table.rows {
		if matchesAll(&rec, res.conditions) {
			results = append(results, rec)
		}
	}
	r.table.mu.RUnlock()

	slices.SortFunc(results, func(a, b T) int {
		for _, k := range res.sort {
			c := compareValues(k.field, &a, &b)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(r.id(&a), r.id(&b))
	})

	if res.limit == 0 {
		return results, nil
	}
	start := min(res.offset, uint64(len(results)))
	end := min(start+res.limit, uint64(len(results)))
	return results[start:end], nil
}

func (r *memoryRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	rec, ok := r.table.rows[id]
	if !ok || !matchesAll(&rec, r.schema.scope()) {
		var zero T
		return zero, ErrNotFound
	}
	return rec, nil
}

func (r *memoryRepository[T]) Create(ctx context.Context, record T) (T, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if err := r.checkUnique(&record, 0); err != nil {
		return record, err
	}

	r.table.nextID++
	id := r.table.nextID
	now := r.now().UTC()
	for _, f := range r.schema.Fields {
		if !f.Generated {
			continue
		}
		v := reflect.ValueOf(f.Ref(&record)).Elem()
		switch {
		case f.Name == IDField:
			v.SetInt(id)
		case f.Name == r.schema.VersionField:
			v.SetInt(1)
		case f.Kind == KindTime:
			v.Set(reflect.ValueOf(now))
		default:
			v.Set(reflect.Zero(v.Type()))
		}
	}

	r.table.rows[id] = record
	return record, nil
}

func (r *memoryRepository[T]) Update(ctx context.Context, id int64, record T) (T, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	existing, ok := r.table.rows[id]
	if !ok || !matchesAll(&existing, r.schema.scope()) {
		return record, ErrNotFound
	}

	for _, f := range r.schema.Fields {
		if f.writable() {
			reflect.ValueOf(f.Ref(&existing)).Elem().Set(reflect.ValueOf(f.Ref(&record)).Elem())
		}
	}
	if err := r.checkUnique(&existing, id); err != nil {
		return record, err
	}
	if r.schema.VersionField != "" {
		v := reflect.ValueOf(r.schema.mustField(r.schema.VersionField).Ref(&existing)).Elem()
		v.SetInt(v.Int() + 1)
	}

	r.table.rows[id] = existing
	return existing, nil
}

func (r *memoryRepository[T]) Delete(ctx context.Context, id int64) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	rec, ok := r.table.rows[id]
	if !ok || !matchesAll(&rec, r.schema.scope()) {
		return ErrNotFound
	}
	delete(r.table.rows, id)
	return nil
}

// checkUnique must be called with the table lock held. selfID is skipped.
func (r *memoryRepository[T]) checkUnique(rec *T, selfID int64) error {
	for _, group := range r.schema.Unique {
		for id, other := range r.table.rows {
			if id == selfID {
				continue
			}
			same := true
			for _, name := range group {
				f := r.schema.mustField(name)
				if !reflect.DeepEqual(f.value(rec), f.value(&other)) {
					same = false
					break
				}
			}
			if same {
				return fmt.Errorf("%w: (%s) already exists", ErrDuplicateKey, strings.Join(group, ", "))
			}
		}
	}
	return nil
}

func matchesAll[T any](rec *T, conditions []condition[T]) bool {
	for _, c := range conditions {
		if !matches(rec, c) {
			return false
		}
	}
	return true
}

func matches[T any](rec *T, c condition[T]) bool {
	v, ok := scalar(c.field, rec)
	if !ok {
		return false
	}

	if c.op == query.OpEq {
		for _, want := range c.values {
			if compareScalar(v, want) == 0 {
				return true
			}
		}
		return false
	}

	n := compareScalar(v, c.values[0])
	switch c.op {
	case query.OpGt:
		return n > 0
	case query.OpGte:
		return n >= 0
	case query.OpLt:
		return n < 0
	case query.OpLte:
		return n <= 0
	default:
		return false
	}
}

// scalar reads a field as int64, float64, string, bool or time.Time.
// ok is false for a nil optional value.
func scalar[T any](f Field[T], rec *T) (any, bool) {
	v := reflect.ValueOf(f.Ref(rec)).Elem()
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch f.Kind {
	case KindInt:
		return v.Int(), true
	case KindFloat:
		return v.Float(), true
	case KindBool:
		return v.Bool(), true
	case KindTime:
		return v.Interface().(time.Time), true
	default:
		return v.String(), true
	}
}

func compareScalar(a, b any) int {
	switch x := a.(type) {
	case int64:
		return cmp.Compare(x, b.(int64))
	case float64:
		return cmp.Compare(x, b.(float64))
	case string:
		return cmp.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case time.Time:
		return x.Compare(b.(time.Time))
	default:
		return 0
	}
}

// compareValues orders two records by one field; nil optional values sort first.
func compareValues[T any](f Field[T], a, b *T) int {
	va, okA := scalar(f, a)
	vb, okB := scalar(f, b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	default:
		return compareScalar(va, vb)
	}
}

var nowFunc = time.Now
