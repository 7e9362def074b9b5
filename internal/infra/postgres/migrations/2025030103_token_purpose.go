package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed 0003_token_purpose.sql
var tokenPurposeSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, tokenPurposeSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `
				DROP INDEX IF EXISTS scores_user_answers_idx;
				ALTER TABLE confirmation_tokens DROP COLUMN IF EXISTS purpose`)
			return err
		},
	)
}
