// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-tours/internal/validators"
)

// Reserved parameter names.
const (
	ParamSort   = "sort"
	ParamFields = "fields"
	ParamPage   = "page"
	ParamLimit  = "limit"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000
	MaxPage      = 1_000_000
)

var keyPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\[([a-z]+)\])?$`)

// Parse builds a Spec from query parameters. Scope conditions are injected
// by the caller (e.g. the parent id of a nested route) and always apply,
// whatever the client sent.
func Parse(params url.Values, scope ...Condition) (Spec, error) {
	verr := validators.NewValidationError()

	spec := Spec{
		Conditions: parseConditions(params, verr),
		Sort:       parseSort(params.Get(ParamSort)),
		Projection: parseProjection(params.Get(ParamFields), verr),
		Page:       parsePositive(params, ParamPage, DefaultPage, verr),
		Limit:      parsePositive(params, ParamLimit, DefaultLimit, verr),
	}
	if spec.Limit > MaxLimit {
		spec.Limit = MaxLimit
	}
	if spec.Page > MaxPage {
		verr.Add(ParamPage, "page must not be greater than "+strconv.Itoa(MaxPage))
	}

	if err := verr.OrNil(); err != nil {
		return Spec{}, err
	}

	spec.Conditions = append(spec.Conditions, scope...)
	return spec, nil
}

func parseConditions(params url.Values, verr *validators.ValidationError) []Condition {
	keys := make([]string, 0, len(params))
	for key := range params {
		switch key {
		case ParamSort, ParamFields, ParamPage, ParamLimit:
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	conditions := make([]Condition, 0, len(keys))
	for _, key := range keys {
		m := keyPattern.FindStringSubmatch(key)
		if m == nil {
			verr.Add(key, "Invalid filter "+key)
			continue
		}

		op := OpEq
		if m[2] != "" {
			op = Operator(m[2])
			if op == OpEq || !op.Valid() {
				verr.Add(key, "Unsupported filter operator "+m[2])
				continue
			}
		}

		values := params[key]
		if op != OpEq {
			// comparisons take the last value, like a plain map lookup would
			values = values[len(values)-1:]
		}
		conditions = append(conditions, Condition{Field: m[1], Op: op, Values: values})
	}
	return conditions
}

func parseSort(raw string) []SortKey {
	keys := make([]SortKey, 0)
	for _, part := range splitList(raw) {
		if strings.HasPrefix(part, "-") {
			keys = append(keys, SortKey{Field: strings.TrimPrefix(part, "-"), Desc: true})
			continue
		}
		keys = append(keys, SortKey{Field: part})
	}
	if len(keys) == 0 {
		return DefaultSort()
	}
	return keys
}

func parseProjection(raw string, verr *validators.ValidationError) Projection {
	parts := splitList(raw)
	if len(parts) == 0 {
		return Projection{}
	}

	var included, excluded []string
	for _, part := range parts {
		if strings.HasPrefix(part, "-") {
			excluded = append(excluded, strings.TrimPrefix(part, "-"))
			continue
		}
		included = append(included, part)
	}

	switch {
	case len(included) > 0 && len(excluded) > 0:
		verr.Add(ParamFields, "Cannot mix included and excluded fields")
		return Projection{}
	case len(excluded) > 0:
		return Projection{Fields: excluded, Exclude: true}
	default:
		return Projection{Fields: included}
	}
}

func parsePositive(params url.Values, name string, def uint64, verr *validators.ValidationError) uint64 {
	raw := params.Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		verr.Add(name, name+" must be a positive integer")
		return def
	}
	return n
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && p != "-" {
			out = append(out, p)
		}
	}
	return out
}
