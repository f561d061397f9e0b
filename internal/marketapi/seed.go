package marketapi

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/gamevault/storefront/internal/store/marketstore"
)

// Seed loads a small demo dataset: a staff account, a shopper account,
// and a handful of games with key offers. Safe to call on an already
// seeded database.
func Seed(ctx context.Context, store *marketstore.Store) error {
	if _, err := store.GetUserByEmail(ctx, "admin@gamevault.test"); err == nil {
		return nil
	} else if !errors.Is(err, marketstore.ErrNotFound) {
		return err
	}

	accounts := []struct {
		email    string
		password string
		name     string
		username string
		isStaff  bool
		role     string
		roleID   string
	}{
		{"admin@gamevault.test", "admin-pass", "Ada Admin", "ada", true, "admin", "1"},
		{"shopper@gamevault.test", "shopper-pass", "", "casey", false, "customer", "3"},
	}
	for _, account := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user := marketstore.User{
			Email:        account.email,
			PasswordHash: string(hash),
			Name:         account.name,
			Username:     account.username,
			IsStaff:      account.isStaff,
			Role:         account.role,
			RoleID:       account.roleID,
		}
		if err := store.CreateUser(ctx, &user); err != nil {
			return fmt.Errorf("seed user %s: %w", account.email, err)
		}
	}

	categories := map[string]*marketstore.Category{
		"strategy": {Name: "Strategy", Slug: "strategy"},
		"rpg":      {Name: "Role-Playing", Slug: "rpg"},
	}
	for slug, category := range categories {
		if err := store.CreateCategory(ctx, category); err != nil {
			return fmt.Errorf("seed category %s: %w", slug, err)
		}
	}

	games := []struct {
		game   marketstore.Game
		offers []marketstore.KeyOffer
	}{
		{
			game: marketstore.Game{
				Name:          "Starfall Tactics",
				Slug:          "starfall-tactics",
				Description:   "Turn-based fleet battles across a dying galaxy.",
				CoverImageURL: "https://cdn.gamevault.test/covers/starfall.jpg",
				CategoryID:    categories["strategy"].CategoryID,
				Metadata:      datatypes.JSON(`{"publisher":"Nova Forge","release_year":2024}`),
			},
			offers: []marketstore.KeyOffer{
				{KeyType: "steam", PriceCents: 1999, Stock: 120},
				{KeyType: "gog", PriceCents: 1899, Stock: 40},
			},
		},
		{
			game: marketstore.Game{
				Name:          "Emberheart",
				Slug:          "emberheart",
				Description:   "A hand-drawn RPG about a village that refuses to burn.",
				CoverImageURL: "https://cdn.gamevault.test/covers/emberheart.jpg",
				CategoryID:    categories["rpg"].CategoryID,
			},
			offers: []marketstore.KeyOffer{
				{KeyType: "steam", PriceCents: 2499, Stock: 75},
			},
		},
		{
			game: marketstore.Game{
				Name:          "Deep Cartography",
				Slug:          "deep-cartography",
				Description:   "Chart procedurally sunken cities before the tide returns.",
				CoverImageURL: "https://cdn.gamevault.test/covers/deepcarto.jpg",
				CategoryID:    categories["strategy"].CategoryID,
			},
			offers: []marketstore.KeyOffer{
				{KeyType: "steam", PriceCents: 500, Stock: 300},
				{KeyType: "epic", PriceCents: 500, Stock: 0},
			},
		},
	}
	for index := range games {
		entry := &games[index]
		if err := store.CreateGame(ctx, &entry.game); err != nil {
			return fmt.Errorf("seed game %s: %w", entry.game.Slug, err)
		}
		for offerIndex := range entry.offers {
			offer := &entry.offers[offerIndex]
			offer.GameID = entry.game.GameID
			if err := store.CreateKeyOffer(ctx, offer); err != nil {
				return fmt.Errorf("seed offer %s/%s: %w", entry.game.Slug, offer.KeyType, err)
			}
		}
	}
	return nil
}
