package store

import (
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/internal/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Resolve(t *testing.T) {
	schema := TourSchema()

	res, err := schema.resolve(query.Spec{
		Conditions: []query.Condition{
			{Field: "duration", Op: query.OpGte, Values: []string{"5"}},
			{Field: "createdAt", Op: query.OpLt, Values: []string{"2026-01-02"}},
		},
		Sort:  []query.SortKey{{Field: "ratingsAverage", Desc: true}},
		Page:  3,
		Limit: 20,
	})
	require.NoError(t, err)

	require.Len(t, res.conditions, 2)
	assert.Equal(t, "duration", res.conditions[0].field.Column)
	assert.Equal(t, int64(5), res.conditions[0].values[0])
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), res.conditions[1].values[0])
	require.Len(t, res.sort, 1)
	assert.Equal(t, "ratings_average", res.sort[0].field.Column)
	assert.True(t, res.sort[0].desc)
	assert.Equal(t, uint64(20), res.limit)
	assert.Equal(t, uint64(40), res.offset)
}

func TestSchema_ResolveErrors(t *testing.T) {
	tests := []struct {
		name      string
		spec      query.Spec
		wantField string
	}{
		{
			name:      "unknown filter field",
			spec:      query.Spec{Conditions: []query.Condition{query.Eq("password", "x")}},
			wantField: "password",
		},
		{
			name:      "list field filter",
			spec:      query.Spec{Conditions: []query.Condition{query.Eq("images", "a.jpg")}},
			wantField: "images",
		},
		{
			name:      "unparsable number",
			spec:      query.Spec{Conditions: []query.Condition{{Field: "price", Op: query.OpGt, Values: []string{"1e"}}}},
			wantField: "price",
		},
		{
			name:      "unknown sort field",
			spec:      query.Spec{Sort: []query.SortKey{{Field: "popularity"}}},
			wantField: "popularity",
		},
		{
			name:      "unknown projected field",
			spec:      query.Spec{Projection: query.Projection{Fields: []string{"secretTour"}}},
			wantField: "secretTour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TourSchema().resolve(tt.spec)

			var verr *validators.ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestSchema_InternalFieldsStayInternal(t *testing.T) {
	schema := UserSchema()

	_, err := schema.resolve(query.Spec{Conditions: []query.Condition{query.Eq("active", "false")}})
	require.ErrorIs(t, err, validators.ErrValidation)

	res, err := schema.resolve(query.Spec{})
	require.NoError(t, err)
	require.Len(t, res.conditions, 1)
	assert.Equal(t, "active", res.conditions[0].field.Column)
	assert.Equal(t, true, res.conditions[0].values[0])

	assert.NotContains(t, schema.Visible(query.Projection{}), "active")
	assert.NotContains(t, schema.Visible(query.Projection{Fields: []string{"active"}, Exclude: true}), "active")
}

func TestSchema_Visible(t *testing.T) {
	schema := TourSchema()

	tests := []struct {
		name       string
		projection query.Projection
		want       []string
		notWant    []string
	}{
		{
			name:    "default hides hidden fields",
			want:    []string{"id", "name", "price"},
			notWant: []string{"createdAt", "version"},
		},
		{
			name:       "inclusion always keeps id",
			projection: query.Projection{Fields: []string{"name", "price"}},
			want:       []string{"id", "name", "price"},
			notWant:    []string{"duration", "summary"},
		},
		{
			name:       "exclusion",
			projection: query.Projection{Fields: []string{"description", "summary"}, Exclude: true},
			want:       []string{"id", "name", "createdAt"},
			notWant:    []string{"description", "summary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible := schema.Visible(tt.projection)
			for _, f := range tt.want {
				assert.Contains(t, visible, f)
			}
			for _, f := range tt.notWant {
				assert.NotContains(t, visible, f)
			}
		})
	}
}

func TestSchema_FieldName(t *testing.T) {
	schema := TourSchema()

	assert.Equal(t, "maxGroupSize", schema.FieldName("max_group_size"))
	assert.Equal(t, "unknown_column", schema.FieldName("unknown_column"))

	assert.True(t, schema.Has("maxGroupSize"))
	assert.False(t, schema.Has("reviews"))
}

func TestSchema_ByIDIncludesScope(t *testing.T) {
	conds := UserSchema().byID(9)

	require.Len(t, conds, 2)
	assert.Equal(t, "active", conds[0].field.Name)
	assert.Equal(t, int64(9), conds[1].values[0])
}
