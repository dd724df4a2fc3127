package store

import (
	"github.com/MKhiriev/go-tours/internal/query"
	"github.com/MKhiriev/go-tours/models"
)

// TourSchema describes the tours table.
func TourSchema() *Schema[models.Tour] {
	return &Schema[models.Tour]{
		Name:  "tour",
		Table: models.Tour{}.TableName(),
		Fields: []Field[models.Tour]{
			{Name: "id", Column: "id", Kind: KindInt, Generated: true, Ref: func(t *models.Tour) any { return &t.ID }},
			{Name: "name", Column: "name", Kind: KindString, Ref: func(t *models.Tour) any { return &t.Name }},
			{Name: "slug", Column: "slug", Kind: KindString, Ref: func(t *models.Tour) any { return &t.Slug }},
			{Name: "duration", Column: "duration", Kind: KindInt, Ref: func(t *models.Tour) any { return &t.Duration }},
			{Name: "maxGroupSize", Column: "max_group_size", Kind: KindInt, Ref: func(t *models.Tour) any { return &t.MaxGroupSize }},
			{Name: "difficulty", Column: "difficulty", Kind: KindString, Ref: func(t *models.Tour) any { return &t.Difficulty }},
			{Name: "ratingsAverage", Column: "ratings_average", Kind: KindFloat, Ref: func(t *models.Tour) any { return &t.RatingsAverage }},
			{Name: "ratingsQuantity", Column: "ratings_quantity", Kind: KindInt, Ref: func(t *models.Tour) any { return &t.RatingsQuantity }},
			{Name: "price", Column: "price", Kind: KindFloat, Ref: func(t *models.Tour) any { return &t.Price }},
			{Name: "priceDiscount", Column: "price_discount", Kind: KindFloat, Ref: func(t *models.Tour) any { return &t.PriceDiscount }},
			{Name: "summary", Column: "summary", Kind: KindString, Ref: func(t *models.Tour) any { return &t.Summary }},
			{Name: "description", Column: "description", Kind: KindString, Ref: func(t *models.Tour) any { return &t.Description }},
			{Name: "imageCover", Column: "image_cover", Kind: KindString, Ref: func(t *models.Tour) any { return &t.ImageCover }},
			{Name: "images", Column: "images", Kind: KindStringList, Ref: func(t *models.Tour) any { return &t.Images }},
			{Name: "startDates", Column: "start_dates", Kind: KindTimeList, Ref: func(t *models.Tour) any { return &t.StartDates }},
			{Name: "createdAt", Column: "created_at", Kind: KindTime, Generated: true, Hidden: true, Ref: func(t *models.Tour) any { return &t.CreatedAt }},
			{Name: "version", Column: "version", Kind: KindInt, Generated: true, Hidden: true, Ref: func(t *models.Tour) any { return &t.Version }},
		},
		Unique:       [][]string{{"name"}},
		VersionField: "version",
	}
}

// ReviewSchema describes the reviews table.
func ReviewSchema() *Schema[models.Review] {
	return &Schema[models.Review]{
		Name:  "review",
		Table: models.Review{}.TableName(),
		Fields: []Field[models.Review]{
			{Name: "id", Column: "id", Kind: KindInt, Generated: true, Ref: func(r *models.Review) any { return &r.ID }},
			{Name: "review", Column: "review", Kind: KindString, Ref: func(r *models.Review) any { return &r.Review }},
			{Name: "rating", Column: "rating", Kind: KindInt, Ref: func(r *models.Review) any { return &r.Rating }},
			{Name: "tour", Column: "tour_id", Kind: KindInt, Immutable: true, Ref: func(r *models.Review) any { return &r.Tour }},
			{Name: "user", Column: "user_id", Kind: KindInt, Immutable: true, Ref: func(r *models.Review) any { return &r.User }},
			{Name: "createdAt", Column: "created_at", Kind: KindTime, Generated: true, Ref: func(r *models.Review) any { return &r.CreatedAt }},
		},
		Unique: [][]string{{"tour", "user"}},
	}
}

// UserSchema describes the public attributes of the users table. Credential
// columns are managed by [UserRepository] only.
func UserSchema() *Schema[models.User] {
	return &Schema[models.User]{
		Name:  "user",
		Table: models.User{}.TableName(),
		Fields: []Field[models.User]{
			{Name: "id", Column: "id", Kind: KindInt, Generated: true, Ref: func(u *models.User) any { return &u.ID }},
			{Name: "name", Column: "name", Kind: KindString, Ref: func(u *models.User) any { return &u.Name }},
			{Name: "email", Column: "email", Kind: KindString, Ref: func(u *models.User) any { return &u.Email }},
			{Name: "photo", Column: "photo", Kind: KindString, Ref: func(u *models.User) any { return &u.Photo }},
			{Name: "role", Column: "role", Kind: KindString, Ref: func(u *models.User) any { return &u.Role }},
			{Name: "active", Column: "active", Kind: KindBool, Immutable: true, Internal: true, Ref: func(u *models.User) any { return &u.Active }},
			{Name: "createdAt", Column: "created_at", Kind: KindTime, Generated: true, Ref: func(u *models.User) any { return &u.CreatedAt }},
		},
		Scope:  []query.Condition{query.Eq("active", "true")},
		Unique: [][]string{{"email"}},
	}
}
