package cart

import "fmt"

// AmountCents is an integer currency in cents. All price arithmetic happens
// in cents; conversion to a display string is the only place a decimal
// point appears.
type AmountCents int64

// Int64 returns the raw cent value.
func (amount AmountCents) Int64() int64 {
	return int64(amount)
}

// Display renders the amount with exactly two decimal places.
func (amount AmountCents) Display() string {
	cents := int64(amount)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// GameSnapshot is the denormalized game view carried on a line item so the
// cart renders without a catalog lookup.
type GameSnapshot struct {
	Name          string `json:"name"`
	CoverImageURL string `json:"cover_image_url"`
}

// LineItem is one entry in the cart.
type LineItem struct {
	ID             string       `json:"id"`
	GameKeyID      string       `json:"game_key_id"`
	Game           GameSnapshot `json:"game"`
	KeyType        string       `json:"key_type"`
	UnitPriceCents AmountCents  `json:"unit_price_cents"`
	Quantity       int64        `json:"quantity"`
}

// State describes the cart lifecycle.
type State string

const (
	StateEmpty      State = "empty"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateMutating   State = "mutating"
	StateRolledBack State = "rolled_back"
)

// String returns the state name.
func (state State) String() string {
	return string(state)
}
