package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday-features/internal/domain/standing"
	qb "github.com/riskibarqy/matchday-features/internal/platform/querybuilder"
)

const standingsTable = "standings"

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListBySeason(ctx context.Context, competition, season string) ([]standing.Row, error) {
	query, args, err := qb.Select(standingColumns...).From(standingsTable).
		Where(
			qb.Eq("competition", competition),
			qb.Eq("season", season),
		).
		OrderBy("matchday", "position", "team").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingFromRow(row))
	}
	return out, nil
}

// ReplaceBySeason swaps the stored season table in one transaction.
func (r *StandingRepository) ReplaceBySeason(ctx context.Context, competition, season string, rows []standing.Row) error {
	models := make([]standingInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, standingToInsert(competition, season, row))
	}

	return replaceSeason(ctx, r.db, standingsTable, competition, season, models)
}
