package cart

import "context"

// API is the remote cart contract consumed by Manager. The server is the
// sole source of truth for price and availability; every method returns the
// authoritative view of what it touched.
type API interface {
	FetchItems(ctx context.Context) ([]LineItem, error)
	AddItem(ctx context.Context, gameKeyID string, quantity int64) (LineItem, error)
	UpdateQuantity(ctx context.Context, itemID string, quantity int64) (LineItem, error)
	RemoveItem(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
}

// Authorizer gates mutations that require a signed-in session.
// session.Manager satisfies this.
type Authorizer interface {
	IsAuthenticated(ctx context.Context) bool
}
