package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

// TestParse_Defaults verifies the query produced for an empty query string.
func TestParse_Defaults(t *testing.T) {
	spec, err := Parse(url.Values{})
	require.NoError(t, err)

	assert.Empty(t, spec.Conditions)
	assert.Equal(t, []SortKey{{Field: "createdAt", Desc: true}}, spec.Sort)
	assert.True(t, spec.Projection.IsDefault())
	assert.Equal(t, uint64(DefaultPage), spec.Page)
	assert.Equal(t, uint64(DefaultLimit), spec.Limit)
	assert.Equal(t, uint64(0), spec.Offset())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, spec Spec)
	}{
		{
			name:  "comparison filter sort and page",
			query: "price[gte]=100&sort=-price&limit=2&page=1",
			check: func(t *testing.T, spec Spec) {
				assert.Equal(t, []Condition{{Field: "price", Op: OpGte, Values: []string{"100"}}}, spec.Conditions)
				assert.Equal(t, []SortKey{{Field: "price", Desc: true}}, spec.Sort)
				assert.Equal(t, uint64(2), spec.Limit)
			},
		},
		{
			name:  "equality and multi-value",
			query: "difficulty=easy&difficulty=medium&duration=5",
			check: func(t *testing.T, spec Spec) {
				assert.Equal(t, []Condition{
					{Field: "difficulty", Op: OpEq, Values: []string{"easy", "medium"}},
					{Field: "duration", Op: OpEq, Values: []string{"5"}},
				}, spec.Conditions)
			},
		},
		{
			name:  "multiple sort keys",
			query: "sort=-ratingsAverage,price",
			check: func(t *testing.T, spec Spec) {
				assert.Equal(t, []SortKey{{Field: "ratingsAverage", Desc: true}, {Field: "price"}}, spec.Sort)
			},
		},
		{
			name:  "inclusion projection",
			query: "fields=name,price",
			check: func(t *testing.T, spec Spec) {
				assert.Equal(t, Projection{Fields: []string{"name", "price"}}, spec.Projection)
			},
		},
		{
			name:  "exclusion projection",
			query: "fields=-summary,-images",
			check: func(t *testing.T, spec Spec) {
				assert.Equal(t, Projection{Fields: []string{"summary", "images"}, Exclude: true}, spec.Projection)
			},
		},
		{
			name:  "page window",
			query: "page=3&limit=10",
			check: func(t *testing.T, spec Spec) {
				assert.Equal(t, uint64(20), spec.Offset())
			},
		},
		{
			name:  "last allowed page",
			query: "page=1000000&limit=5000",
			check: func(t *testing.T, spec Spec) {
				assert.Equal(t, uint64(MaxPage), spec.Page)
				assert.Equal(t, uint64(MaxPage-1)*MaxLimit, spec.Offset())
			},
		},
		{
			name:  "limit is clamped",
			query: "limit=5000",
			check: func(t *testing.T, spec Spec) {
				assert.Equal(t, uint64(MaxLimit), spec.Limit)
			},
		},
		{
			name:  "unknown field passes through",
			query: "secretTour=true",
			check: func(t *testing.T, spec Spec) {
				assert.Equal(t, []Condition{Eq("secretTour", "true")}, spec.Conditions)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(mustParseQuery(t, tt.query))
			require.NoError(t, err)
			tt.check(t, spec)
		})
	}
}

func TestSpec_Offset(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want uint64
	}{
		{name: "unset page", spec: Spec{Limit: 10}, want: 0},
		{name: "first page", spec: Spec{Page: 1, Limit: 10}, want: 0},
		{name: "no limit", spec: Spec{Page: 5}, want: 0},
		{name: "window", spec: Spec{Page: 4, Limit: 25}, want: 75},
		{name: "saturates", spec: Spec{Page: math.MaxUint64, Limit: MaxLimit}, want: math.MaxInt64},
		{name: "just below saturation", spec: Spec{Page: math.MaxInt64/2 + 1, Limit: 2}, want: math.MaxInt64 - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.Offset())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{name: "unknown operator", query: "price[ne]=5", field: "price[ne]"},
		{name: "explicit eq operator", query: "price[eq]=5", field: "price[eq]"},
		{name: "injection attempt", query: "price%20drop=1", field: "price drop"},
		{name: "zero page", query: "page=0", field: ParamPage},
		{name: "page above cap", query: "page=1000001", field: ParamPage},
		{name: "page near uint64 max", query: "page=18446744073709551615&limit=1000", field: ParamPage},
		{name: "page beyond uint64", query: "page=18446744073709551616", field: ParamPage},
		{name: "negative limit", query: "limit=-5", field: ParamLimit},
		{name: "non numeric limit", query: "limit=ten", field: ParamLimit},
		{name: "mixed projection", query: "fields=name,-price", field: ParamFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(mustParseQuery(t, tt.query))
			require.ErrorIs(t, err, validators.ErrValidation)

			var verr *validators.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

// TestParse_ScopeAlwaysApplies verifies that a client cannot override the
// scope injected by a nested route.
func TestParse_ScopeAlwaysApplies(t *testing.T) {
	spec, err := Parse(mustParseQuery(t, "tour=99"), Eq("tour", "7"))
	require.NoError(t, err)

	assert.Equal(t, []Condition{Eq("tour", "99"), Eq("tour", "7")}, spec.Conditions)
}

func TestProjection_Keeps(t *testing.T) {
	def := Projection{}
	assert.True(t, def.Keeps("name", false))
	assert.False(t, def.Keeps("version", true))

	incl := Projection{Fields: []string{"name", "version"}}
	assert.True(t, incl.Keeps("version", true))
	assert.False(t, incl.Keeps("price", false))

	excl := Projection{Fields: []string{"price"}, Exclude: true}
	assert.False(t, excl.Keeps("price", false))
	assert.True(t, excl.Keeps("version", true))
}
