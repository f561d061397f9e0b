package restclient

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gamevault/storefront/internal/marketapi"
	"github.com/gamevault/storefront/internal/store/credstore"
	"github.com/gamevault/storefront/internal/store/marketstore"
	"github.com/gamevault/storefront/pkg/cart"
	"github.com/gamevault/storefront/pkg/catalog"
	"github.com/gamevault/storefront/pkg/session"
)

// Full-stack path: marketplace API served by gin, credentials in sqlite,
// session and cart managers on top of the HTTP client.
func TestStorefrontAgainstMarketplaceAPI(test *testing.T) {
	server := startMarketplace(test)
	sessions := newSessionManager(test)
	ctx := context.Background()

	client, err := New(server.URL,
		WithTokenSource(sessions),
		WithOnUnauthorized(func(ctx context.Context) { sessions.Clear(ctx) }))
	if err != nil {
		test.Fatalf("client init failed: %v", err)
	}

	record, err := client.Login(ctx, "shopper@gamevault.test", "shopper-pass")
	if err != nil {
		test.Fatalf("login failed: %v", err)
	}
	if !sessions.Persist(ctx, *record) {
		test.Fatalf("credential persist failed")
	}
	if !sessions.IsAuthenticated(ctx) {
		test.Fatalf("expected an authenticated session after login")
	}
	identity := sessions.CurrentUser(ctx)
	if identity == nil || identity.DisplayName != "casey" {
		test.Fatalf("expected username fallback display name, got %+v", identity)
	}
	if session.IsStaff(sessions.Token(ctx)) {
		test.Fatalf("shopper token should not carry the staff flag")
	}

	catalogAPI := NewCatalogAPI(client)
	games, err := catalogAPI.ListGames(ctx)
	if err != nil {
		test.Fatalf("catalog list failed: %v", err)
	}
	offerID := ""
	for _, game := range games {
		for _, offer := range game.Offers {
			if offer.PriceCents == 1999 {
				offerID = offer.ID
			}
		}
	}
	if offerID == "" {
		test.Fatalf("expected a seeded 1999-cent offer")
	}

	carts, err := cart.NewManager(NewCartAPI(client), sessions)
	if err != nil {
		test.Fatalf("cart manager init failed: %v", err)
	}
	if err := carts.AddItem(ctx, offerID, 2); err != nil {
		test.Fatalf("add failed: %v", err)
	}
	if total := carts.DerivedTotalCents(); total != 3998 {
		test.Fatalf("expected total 3998, got %d", total)
	}
	if display := carts.DerivedTotalCents().Display(); display != "39.98" {
		test.Fatalf("expected display 39.98, got %s", display)
	}
	if err := carts.Clear(ctx); err != nil {
		test.Fatalf("clear failed: %v", err)
	}
	if carts.State() != cart.StateEmpty {
		test.Fatalf("expected empty cart state, got %s", carts.State())
	}

	// Logging out locally means the next guarded call is unauthorized and
	// the callback keeps the store clear.
	if err := client.Logout(ctx); err != nil {
		test.Fatalf("logout failed: %v", err)
	}
	sessions.Clear(ctx)
	if sessions.IsAuthenticated(ctx) {
		test.Fatalf("expected a logged-out session")
	}
	if err := carts.AddItem(ctx, offerID, 1); err == nil {
		test.Fatalf("expected add to fail when logged out")
	}
}

func TestStaffGateEndToEnd(test *testing.T) {
	server := startMarketplace(test)
	sessions := newSessionManager(test)
	ctx := context.Background()

	client, err := New(server.URL, WithTokenSource(sessions))
	if err != nil {
		test.Fatalf("client init failed: %v", err)
	}

	record, err := client.Login(ctx, "admin@gamevault.test", "admin-pass")
	if err != nil {
		test.Fatalf("login failed: %v", err)
	}
	sessions.Persist(ctx, *record)
	if !session.IsStaff(sessions.Token(ctx)) {
		test.Fatalf("admin token should carry the staff flag")
	}

	catalogAPI := NewCatalogAPI(client)
	created, err := catalogAPI.CreateGame(ctx, gameInput("Tidebreaker", "tidebreaker"))
	if err != nil {
		test.Fatalf("staff create failed: %v", err)
	}
	if created.ID == "" {
		test.Fatalf("expected created game to carry an id")
	}
	if err := catalogAPI.DeleteGame(ctx, created.ID); err != nil {
		test.Fatalf("staff delete failed: %v", err)
	}
}

func gameInput(name string, slug string) catalog.GameInput {
	return catalog.GameInput{Name: name, Slug: slug}
}

func startMarketplace(test *testing.T) *httptest.Server {
	test.Helper()
	databasePath := filepath.Join(test.TempDir(), "market.db")
	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		test.Fatalf("sqlite open failed: %v", err)
	}
	store := marketstore.New(db)
	if err := store.Migrate(); err != nil {
		test.Fatalf("migrate failed: %v", err)
	}
	if err := marketapi.Seed(context.Background(), store); err != nil {
		test.Fatalf("seed failed: %v", err)
	}
	cfg := marketapi.Config{TokenSigningKey: "integration-signing-key"}
	if err := cfg.Validate(); err != nil {
		test.Fatalf("config validate failed: %v", err)
	}
	server := httptest.NewServer(marketapi.NewRouter(cfg, store, zap.NewNop()))
	test.Cleanup(server.Close)
	return server
}

func newSessionManager(test *testing.T) *session.Manager {
	test.Helper()
	databasePath := filepath.Join(test.TempDir(), "credentials.db")
	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		test.Fatalf("sqlite open failed: %v", err)
	}
	store := credstore.New(db)
	if err := store.Migrate(); err != nil {
		test.Fatalf("migrate failed: %v", err)
	}
	manager, err := session.NewManager(store, func() int64 { return time.Now().UTC().Unix() })
	if err != nil {
		test.Fatalf("session manager init failed: %v", err)
	}
	return manager
}
