package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday-features/internal/domain/feature"
	qb "github.com/riskibarqy/matchday-features/internal/platform/querybuilder"
)

const featureVectorsTable = "feature_vectors"

type FeatureRepository struct {
	db *sqlx.DB
}

func NewFeatureRepository(db *sqlx.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

func (r *FeatureRepository) ListBySeason(ctx context.Context, competition, season string) ([]feature.Vector, error) {
	query, args, err := qb.Select(featureColumns...).From(featureVectorsTable).
		Where(
			qb.Eq("competition", competition),
			qb.Eq("season", season),
		).
		OrderBy("kickoff_at", "match_id", "team").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list feature vectors query: %w", err)
	}

	var rows []featureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list feature vectors: %w", err)
	}

	out := make([]feature.Vector, 0, len(rows))
	for _, row := range rows {
		v, err := featureFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode feature vector match=%s team=%s: %w", row.MatchID, row.Team, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *FeatureRepository) ReplaceBySeason(ctx context.Context, competition, season string, vectors []feature.Vector) error {
	models := make([]featureInsertModel, 0, len(vectors))
	for _, v := range vectors {
		model, err := featureToInsert(competition, season, v)
		if err != nil {
			return fmt.Errorf("encode feature vector match=%s team=%s: %w", v.MatchID, v.Team, err)
		}
		models = append(models, model)
	}

	return replaceSeason(ctx, r.db, featureVectorsTable, competition, season, models)
}
