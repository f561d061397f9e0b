// Package marketstore persists the mock marketplace: accounts, catalog,
// and per-user carts.
package marketstore

import (
	"context"
	"errors"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolationCode = "23505"
	sqliteConstraintCode  = 19
)

// Store-level error values.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Store implements marketplace persistence using GORM.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates all marketplace tables.
func (store *Store) Migrate() error {
	return store.db.AutoMigrate(&User{}, &Category{}, &Game{}, &KeyOffer{}, &CartItem{})
}

// CreateUser inserts an account. A taken email maps to ErrDuplicate.
func (store *Store) CreateUser(ctx context.Context, user *User) error {
	err := store.db.WithContext(ctx).Create(user).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetUserByEmail looks an account up for login.
func (store *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := store.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	return user, err
}

// ListCategories returns all categories ordered by name.
func (store *Store) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := store.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

// CreateCategory inserts a category. A taken slug maps to ErrDuplicate.
func (store *Store) CreateCategory(ctx context.Context, category *Category) error {
	err := store.db.WithContext(ctx).Create(category).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// ListGames returns the catalog with offers preloaded.
func (store *Store) ListGames(ctx context.Context) ([]Game, error) {
	var games []Game
	err := store.db.WithContext(ctx).Preload("Offers").Order("name").Find(&games).Error
	return games, err
}

// GetGame returns one game with offers preloaded.
func (store *Store) GetGame(ctx context.Context, gameID string) (Game, error) {
	var game Game
	err := store.db.WithContext(ctx).Preload("Offers").Where("game_id = ?", gameID).Take(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Game{}, ErrNotFound
	}
	return game, err
}

// CreateGame inserts a catalog entry. A taken slug maps to ErrDuplicate.
func (store *Store) CreateGame(ctx context.Context, game *Game) error {
	err := store.db.WithContext(ctx).Create(game).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// UpdateGame rewrites the mutable fields of a catalog entry.
func (store *Store) UpdateGame(ctx context.Context, game Game) error {
	result := store.db.WithContext(ctx).Model(&Game{}).
		Where("game_id = ?", game.GameID).
		Updates(map[string]interface{}{
			"name":            game.Name,
			"slug":            game.Slug,
			"description":     game.Description,
			"cover_image_url": game.CoverImageURL,
			"category_id":     game.CategoryID,
			"metadata":        game.Metadata,
		})
	if isUniqueViolation(result.Error) {
		return ErrDuplicate
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteGame removes a catalog entry and its offers.
func (store *Store) DeleteGame(ctx context.Context, gameID string) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		if err := transaction.Where("game_id = ?", gameID).Delete(&KeyOffer{}).Error; err != nil {
			return err
		}
		result := transaction.Where("game_id = ?", gameID).Delete(&Game{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateKeyOffer inserts an offer. A second offer for the same game and
// platform maps to ErrDuplicate.
func (store *Store) CreateKeyOffer(ctx context.Context, offer *KeyOffer) error {
	err := store.db.WithContext(ctx).Create(offer).Error
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetKeyOffer returns one offer.
func (store *Store) GetKeyOffer(ctx context.Context, offerID string) (KeyOffer, error) {
	var offer KeyOffer
	err := store.db.WithContext(ctx).Where("offer_id = ?", offerID).Take(&offer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KeyOffer{}, ErrNotFound
	}
	return offer, err
}

// ListCartItems returns a user's cart, oldest line first.
func (store *Store) ListCartItems(ctx context.Context, userID string) ([]CartItem, error) {
	var items []CartItem
	err := store.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

// UpsertCartItem adds an offer to a user's cart. Adding an already-carted
// offer bumps its quantity instead of creating a second line.
func (store *Store) UpsertCartItem(ctx context.Context, userID string, offer KeyOffer, game Game, quantity int64) (CartItem, error) {
	var item CartItem
	err := store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		err := transaction.
			Where("user_id = ? AND offer_id = ?", userID, offer.OfferID).
			Take(&item).Error
		if err == nil {
			item.Quantity += quantity
			return transaction.Model(&CartItem{}).
				Where("item_id = ?", item.ItemID).
				Update("quantity", item.Quantity).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		item = CartItem{
			UserID:         userID,
			OfferID:        offer.OfferID,
			GameName:       game.Name,
			GameCoverURL:   game.CoverImageURL,
			KeyType:        offer.KeyType,
			UnitPriceCents: offer.PriceCents,
			Quantity:       quantity,
		}
		return transaction.Create(&item).Error
	})
	return item, err
}

// UpdateCartItemQuantity rewrites one line's quantity.
func (store *Store) UpdateCartItemQuantity(ctx context.Context, userID string, itemID string, quantity int64) (CartItem, error) {
	result := store.db.WithContext(ctx).Model(&CartItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return CartItem{}, result.Error
	}
	if result.RowsAffected == 0 {
		return CartItem{}, ErrNotFound
	}
	var item CartItem
	err := store.db.WithContext(ctx).Where("item_id = ?", itemID).Take(&item).Error
	return item, err
}

// RemoveCartItem deletes one line from a user's cart.
func (store *Store) RemoveCartItem(ctx context.Context, userID string, itemID string) error {
	result := store.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCart deletes every line of a user's cart. Idempotent.
func (store *Store) ClearCart(ctx context.Context, userID string) error {
	return store.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&CartItem{}).Error
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
