package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Team, bool, error)
	GetByCaptain(ctx context.Context, captainID string) (Team, bool, error)
	ListByIDs(ctx context.Context, ids []string) ([]Team, error)
}
