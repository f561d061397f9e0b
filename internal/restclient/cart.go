package restclient

import (
	"context"
	"net/http"

	"github.com/gamevault/storefront/pkg/cart"
)

// CartAPI implements cart.API over the marketplace HTTP surface.
type CartAPI struct {
	client *Client
}

// NewCartAPI wraps a Client for cart traffic.
func NewCartAPI(client *Client) *CartAPI {
	return &CartAPI{client: client}
}

var _ cart.API = (*CartAPI)(nil)

type addItemRequest struct {
	GameKeyID string `json:"game_key_id"`
	Quantity  int64  `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// FetchItems returns the server's authoritative cart contents.
func (api *CartAPI) FetchItems(ctx context.Context) ([]cart.LineItem, error) {
	var items []cart.LineItem
	if err := api.client.doList(ctx, "/cart/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem puts a game key in the cart and returns the resulting line.
func (api *CartAPI) AddItem(ctx context.Context, gameKeyID string, quantity int64) (cart.LineItem, error) {
	var item cart.LineItem
	err := api.client.doJSON(ctx, http.MethodPost, "/cart/add", addItemRequest{GameKeyID: gameKeyID, Quantity: quantity}, &item)
	return item, err
}

// UpdateQuantity rewrites one line's quantity and returns the updated line.
func (api *CartAPI) UpdateQuantity(ctx context.Context, itemID string, quantity int64) (cart.LineItem, error) {
	var item cart.LineItem
	err := api.client.doJSON(ctx, http.MethodPut, "/cart/items/"+itemID, updateQuantityRequest{Quantity: quantity}, &item)
	return item, err
}

// RemoveItem deletes one line from the cart.
func (api *CartAPI) RemoveItem(ctx context.Context, itemID string) error {
	return api.client.doJSON(ctx, http.MethodDelete, "/cart/remove/"+itemID, nil, nil)
}

// Clear empties the cart.
func (api *CartAPI) Clear(ctx context.Context) error {
	return api.client.doJSON(ctx, http.MethodDelete, "/cart/clear", nil, nil)
}
