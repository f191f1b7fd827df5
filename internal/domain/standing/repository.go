package standing

import "context"

// Repository persists reconstructed standings per competition season.
type Repository interface {
	ReplaceBySeason(ctx context.Context, competition, season string, rows []Row) error
	ListBySeason(ctx context.Context, competition, season string) ([]Row, error)
}
