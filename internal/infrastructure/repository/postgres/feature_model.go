package postgres

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/matchday-features/internal/domain/feature"
)

type featureTableModel struct {
	ID          int64     `db:"id"`
	Competition string    `db:"competition"`
	Season      string    `db:"season"`
	MatchID     string    `db:"match_id"`
	Team        string    `db:"team"`
	KickoffAt   time.Time `db:"kickoff_at"`
	Payload     []byte    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}

type featureInsertModel struct {
	Competition string    `db:"competition"`
	Season      string    `db:"season"`
	MatchID     string    `db:"match_id"`
	Team        string    `db:"team"`
	KickoffAt   time.Time `db:"kickoff_at"`
	Payload     string    `db:"payload"`
}

var featureColumns = []string{
	"id", "competition", "season", "match_id", "team", "kickoff_at", "payload", "created_at",
}

func featureFromRow(row featureTableModel) (feature.Vector, error) {
	var v feature.Vector
	if err := sonic.Unmarshal(row.Payload, &v); err != nil {
		return feature.Vector{}, err
	}
	return v, nil
}

func featureToInsert(competition, season string, v feature.Vector) (featureInsertModel, error) {
	payload, err := sonic.MarshalString(v)
	if err != nil {
		return featureInsertModel{}, err
	}
	return featureInsertModel{
		Competition: competition,
		Season:      season,
		MatchID:     v.MatchID,
		Team:        v.Team,
		KickoffAt:   v.KickoffAt.UTC(),
		Payload:     payload,
	}, nil
}
