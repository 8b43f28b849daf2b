package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed 0003_add_event_points.sql
var addEventPointsSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, addEventPointsSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `
				ALTER TABLE events
				    DROP CONSTRAINT IF EXISTS events_points_value_non_negative,
				    DROP COLUMN IF EXISTS points_value,
				    DROP COLUMN IF EXISTS qr_active`)
			return err
		},
	)
}
