package marketstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a marketplace account. The password hash never leaves this
// package.
type User struct {
	UserID       string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"not null;index:uniq_users_email,unique"`
	PasswordHash string    `gorm:"not null"`
	Name         string    `gorm:""`
	Username     string    `gorm:""`
	IsStaff      bool      `gorm:"not null"`
	Role         string    `gorm:""`
	RoleID       string    `gorm:""`
	CreatedAt    time.Time `gorm:"not null"`
}

func (User) TableName() string { return "users" }

func (user *User) BeforeCreate(tx *gorm.DB) error {
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	return nil
}

// Category groups games for browsing.
type Category struct {
	CategoryID string    `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"not null"`
	Slug       string    `gorm:"not null;index:uniq_categories_slug,unique"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (Category) TableName() string { return "categories" }

func (category *Category) BeforeCreate(tx *gorm.DB) error {
	if category.CategoryID == "" {
		category.CategoryID = uuid.NewString()
	}
	return nil
}

// Game is one catalog entry. Metadata carries free-form attributes
// (system requirements, publisher details) that the storefront renders
// without the store schema knowing about them.
type Game struct {
	GameID        string         `gorm:"type:uuid;primaryKey"`
	Name          string         `gorm:"not null"`
	Slug          string         `gorm:"not null;index:uniq_games_slug,unique"`
	Description   string         `gorm:""`
	CoverImageURL string         `gorm:""`
	CategoryID    string         `gorm:"index"`
	Metadata      datatypes.JSON `gorm:""`
	Offers        []KeyOffer     `gorm:"foreignKey:GameID;references:GameID"`
	CreatedAt     time.Time      `gorm:"not null"`
	UpdatedAt     time.Time      `gorm:"not null"`
}

func (Game) TableName() string { return "games" }

func (game *Game) BeforeCreate(tx *gorm.DB) error {
	if game.GameID == "" {
		game.GameID = uuid.NewString()
	}
	return nil
}

// KeyOffer is a purchasable key for a game on one platform.
type KeyOffer struct {
	OfferID    string    `gorm:"type:uuid;primaryKey"`
	GameID     string    `gorm:"type:uuid;not null;index:uniq_offers_game_key_type,unique,priority:1"`
	KeyType    string    `gorm:"not null;index:uniq_offers_game_key_type,unique,priority:2"`
	PriceCents int64     `gorm:"not null"`
	Stock      int64     `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (KeyOffer) TableName() string { return "key_offers" }

func (offer *KeyOffer) BeforeCreate(tx *gorm.DB) error {
	if offer.OfferID == "" {
		offer.OfferID = uuid.NewString()
	}
	return nil
}

// CartItem is one line of a user's cart, with a denormalized game snapshot
// so the cart lists without a catalog join.
type CartItem struct {
	ItemID         string    `gorm:"type:uuid;primaryKey"`
	UserID         string    `gorm:"type:uuid;not null;index:uniq_cart_user_offer,unique,priority:1"`
	OfferID        string    `gorm:"type:uuid;not null;index:uniq_cart_user_offer,unique,priority:2"`
	GameName       string    `gorm:"not null"`
	GameCoverURL   string    `gorm:""`
	KeyType        string    `gorm:"not null"`
	UnitPriceCents int64     `gorm:"not null"`
	Quantity       int64     `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (CartItem) TableName() string { return "cart_items" }

func (item *CartItem) BeforeCreate(tx *gorm.DB) error {
	if item.ItemID == "" {
		item.ItemID = uuid.NewString()
	}
	return nil
}
