package plan

import (
	"context"
)

// Repository defines the interface for plan catalog persistence
type Repository interface {
	Create(ctx context.Context, p *Plan) error
	Get(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
}
