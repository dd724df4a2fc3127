package store

import (
	"context"

	"github.com/MKhiriev/go-tours/migrations"
)

// Migrate brings the schema up to date and logs each version it applied.
func (db *DB) Migrate(ctx context.Context) error {
	applied, err := migrations.Migrate(ctx, db.DB)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		db.logger.Debug().Str("func", "*DB.Migrate").Msg("schema is up to date")
		return nil
	}
	for _, version := range applied {
		db.logger.Info().Str("func", "*DB.Migrate").Int64("version", version).Msg("applied migration")
	}

	return nil
}
