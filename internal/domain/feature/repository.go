package feature

import "context"

// Repository persists feature vectors per competition season.
type Repository interface {
	ReplaceBySeason(ctx context.Context, competition, season string, vectors []Vector) error
	ListBySeason(ctx context.Context, competition, season string) ([]Vector, error)
}
