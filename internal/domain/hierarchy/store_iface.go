package hierarchy

import "context"

type StoreAPI interface {
	OrderedChain(ctx context.Context, employeeID string) ([]ChainEntry, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	IsOverride(ctx context.Context, userID string) (bool, error)
}
