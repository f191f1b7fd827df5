package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/matchday-features/internal/platform/querybuilder"
)

// insertChunkSize keeps multi-row inserts under the 65535 bind parameter cap.
const insertChunkSize = 500

// replaceSeason deletes the season's rows and inserts models in chunks,
// all inside one transaction.
func replaceSeason[T any](ctx context.Context, db *sqlx.DB, table, competition, season string, models []T) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace %s: %w", table, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom(table).
		Where(
			qb.Eq("competition", competition),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear %s competition=%s season=%s: %w", table, competition, season, err)
	}

	for _, chunk := range chunks(models, insertChunkSize) {
		query, args, err := qb.InsertModels(table, chunk, "")
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s competition=%s season=%s: %w", table, competition, season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace %s tx: %w", table, err)
	}
	return nil
}

func chunks[T any](items []T, size int) [][]T {
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
