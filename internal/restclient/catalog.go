package restclient

import (
	"context"
	"net/http"

	"github.com/gamevault/storefront/pkg/catalog"
)

// CatalogAPI reads the public catalog and drives the staff admin surface.
type CatalogAPI struct {
	client *Client
}

// NewCatalogAPI wraps a Client for catalog traffic.
func NewCatalogAPI(client *Client) *CatalogAPI {
	return &CatalogAPI{client: client}
}

// ListGames returns the full catalog.
func (api *CatalogAPI) ListGames(ctx context.Context) ([]catalog.Game, error) {
	var games []catalog.Game
	if err := api.client.doList(ctx, "/catalog/games", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GetGame returns one catalog entry with its offers.
func (api *CatalogAPI) GetGame(ctx context.Context, gameID string) (catalog.Game, error) {
	var game catalog.Game
	err := api.client.doJSON(ctx, http.MethodGet, "/catalog/games/"+gameID, nil, &game)
	return game, err
}

// ListCategories returns all browse categories.
func (api *CatalogAPI) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := api.client.doList(ctx, "/catalog/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a browse category. Staff only.
func (api *CatalogAPI) CreateCategory(ctx context.Context, input catalog.Category) (catalog.Category, error) {
	var created catalog.Category
	err := api.client.doJSON(ctx, http.MethodPost, "/admin/categories", input, &created)
	return created, err
}

// CreateGame adds a catalog entry. Staff only.
func (api *CatalogAPI) CreateGame(ctx context.Context, input catalog.GameInput) (catalog.Game, error) {
	var created catalog.Game
	err := api.client.doJSON(ctx, http.MethodPost, "/admin/games", input, &created)
	return created, err
}

// UpdateGame rewrites a catalog entry. Staff only.
func (api *CatalogAPI) UpdateGame(ctx context.Context, gameID string, input catalog.GameInput) (catalog.Game, error) {
	var updated catalog.Game
	err := api.client.doJSON(ctx, http.MethodPut, "/admin/games/"+gameID, input, &updated)
	return updated, err
}

// DeleteGame removes a catalog entry and its offers. Staff only.
func (api *CatalogAPI) DeleteGame(ctx context.Context, gameID string) error {
	return api.client.doJSON(ctx, http.MethodDelete, "/admin/games/"+gameID, nil, nil)
}

// CreateKeyOffer adds a purchasable key offer to a game. Staff only.
func (api *CatalogAPI) CreateKeyOffer(ctx context.Context, gameID string, input catalog.KeyOfferInput) (catalog.KeyOffer, error) {
	var created catalog.KeyOffer
	err := api.client.doJSON(ctx, http.MethodPost, "/admin/games/"+gameID+"/offers", input, &created)
	return created, err
}
