package outfits

import "context"

// Repo persists the generation ledger.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	List(ctx context.Context, limit, offset int) ([]Record, error)
}
