// Package catalog holds the wire types shared by the storefront client and
// the marketplace API: games, categories, and purchasable key offers.
package catalog

import "encoding/json"

// Category groups games for browsing.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Game is one catalog entry. Metadata is free-form JSON the storefront
// renders as-is.
type Game struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description,omitempty"`
	CoverImageURL string          `json:"cover_image_url,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	Offers        []KeyOffer      `json:"offers,omitempty"`
}

// KeyOffer is a purchasable key for a game on a given platform, priced in
// integer cents.
type KeyOffer struct {
	ID         string `json:"id"`
	GameID     string `json:"game_id"`
	KeyType    string `json:"key_type"`
	PriceCents int64  `json:"price_cents"`
	Stock      int64  `json:"stock"`
}

// GameInput is the staff-console payload for creating or updating a game.
type GameInput struct {
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description,omitempty"`
	CoverImageURL string          `json:"cover_image_url,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

// KeyOfferInput is the staff-console payload for adding a key offer.
type KeyOfferInput struct {
	KeyType    string `json:"key_type"`
	PriceCents int64  `json:"price_cents"`
	Stock      int64  `json:"stock"`
}
