package session

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

type stubCredentialStore struct {
	record     *CredentialRecord
	saveError  error
	loadError  error
	clearError error
	clearCalls int
}

func (store *stubCredentialStore) Save(_ context.Context, record CredentialRecord) error {
	if store.saveError != nil {
		return store.saveError
	}
	saved := record
	store.record = &saved
	return nil
}

func (store *stubCredentialStore) Load(_ context.Context) (*CredentialRecord, error) {
	if store.loadError != nil {
		return nil, store.loadError
	}
	if store.record == nil {
		return nil, nil
	}
	loaded := *store.record
	return &loaded, nil
}

func (store *stubCredentialStore) Clear(_ context.Context) error {
	store.clearCalls++
	if store.clearError != nil {
		return store.clearError
	}
	store.record = nil
	return nil
}

func mustManager(test *testing.T, store CredentialStore, now func() int64) *Manager {
	test.Helper()
	manager, err := NewManager(store, now)
	if err != nil {
		test.Fatalf("new manager: %v", err)
	}
	return manager
}

func testRecord(test *testing.T, expiresAtUnixUTC int64) CredentialRecord {
	test.Helper()
	raw := mustToken(test, jwt.MapClaims{
		"nameid":   "user-1",
		"email":    "ada@example.com",
		"name":     "Ada Lovelace",
		"username": "ada",
		"exp":      expiresAtUnixUTC,
	})
	return CredentialRecord{
		Token:        raw,
		RefreshToken: "refresh-1",
		User: Identity{
			UserID:      "user-1",
			Email:       "ada@example.com",
			DisplayName: "Ada Lovelace",
			Username:    "ada",
		},
		ExpiresAtUnixUTC: expiresAtUnixUTC,
	}
}

func TestNewManagerRequiresDependencies(test *testing.T) {
	test.Parallel()
	if _, err := NewManager(nil, testNow); err == nil {
		test.Fatalf("expected error for nil store")
	}
	if _, err := NewManager(&stubCredentialStore{}, nil); err == nil {
		test.Fatalf("expected error for nil clock")
	}
}

func TestPersistLoadRoundTrip(test *testing.T) {
	test.Parallel()
	store := &stubCredentialStore{}
	manager := mustManager(test, store, testNow)
	record := testRecord(test, testNow()+3600)

	if !manager.Persist(context.Background(), record) {
		test.Fatalf("persist failed")
	}
	loaded := manager.Load(context.Background())
	if loaded == nil {
		test.Fatalf("expected record after persist")
	}
	if *loaded != record {
		test.Fatalf("round trip mismatch: %+v != %+v", *loaded, record)
	}

	manager.Clear(context.Background())
	if manager.Load(context.Background()) != nil {
		test.Fatalf("expected nil record after clear")
	}
}

func TestPersistReportsStoreFailure(test *testing.T) {
	test.Parallel()
	store := &stubCredentialStore{saveError: errors.New("disk full")}
	manager := mustManager(test, store, testNow)
	if manager.Persist(context.Background(), testRecord(test, testNow()+60)) {
		test.Fatalf("expected persist to report failure")
	}
}

func TestLoadCollapsesStoreErrorToAbsent(test *testing.T) {
	test.Parallel()
	store := &stubCredentialStore{loadError: errors.New("corrupt row")}
	manager := mustManager(test, store, testNow)
	if manager.Load(context.Background()) != nil {
		test.Fatalf("expected nil record on store error")
	}
	if manager.IsAuthenticated(context.Background()) {
		test.Fatalf("expected unauthenticated on store error")
	}
}

func TestIsAuthenticatedEvictsExpiredRecord(test *testing.T) {
	test.Parallel()
	now := testNow()
	store := &stubCredentialStore{}
	manager := mustManager(test, store, func() int64 { return now })
	manager.Persist(context.Background(), testRecord(test, now-10))

	if manager.IsAuthenticated(context.Background()) {
		test.Fatalf("expected expired record to read unauthenticated")
	}
	if store.clearCalls == 0 {
		test.Fatalf("expected lazy eviction to clear the store")
	}
	if store.record != nil {
		test.Fatalf("expected record gone after eviction")
	}
}

func TestIsAuthenticatedFailsClosedOnMissingExpiry(test *testing.T) {
	test.Parallel()
	store := &stubCredentialStore{}
	manager := mustManager(test, store, testNow)
	record := testRecord(test, testNow()+600)
	record.ExpiresAtUnixUTC = 0
	manager.Persist(context.Background(), record)

	if manager.IsAuthenticated(context.Background()) {
		test.Fatalf("expected missing expiry to read unauthenticated")
	}
}

func TestIsAuthenticatedWithLiveRecord(test *testing.T) {
	test.Parallel()
	store := &stubCredentialStore{}
	manager := mustManager(test, store, testNow)
	manager.Persist(context.Background(), testRecord(test, testNow()+3600))

	if !manager.IsAuthenticated(context.Background()) {
		test.Fatalf("expected authenticated with live record")
	}
	if store.clearCalls != 0 {
		test.Fatalf("expected no eviction for live record")
	}
}

func TestCurrentUserPrefersLiveToken(test *testing.T) {
	test.Parallel()
	store := &stubCredentialStore{}
	manager := mustManager(test, store, testNow)
	record := testRecord(test, testNow()+3600)
	record.User.DisplayName = "Stale Stored Name"
	record.Token = mustToken(test, jwt.MapClaims{
		"nameid":   "user-1",
		"email":    "ada@example.com",
		"name":     "Fresh Token Name",
		"is_staff": true,
		"exp":      testNow() + 3600,
	})
	manager.Persist(context.Background(), record)

	identity := manager.CurrentUser(context.Background())
	if identity == nil {
		test.Fatalf("expected identity")
	}
	if identity.DisplayName != "Fresh Token Name" {
		test.Fatalf("expected live token to win, got %q", identity.DisplayName)
	}
	if !identity.IsStaff {
		test.Fatalf("expected staff flag from live token")
	}
}

func TestCurrentUserFallsBackToStoredCopy(test *testing.T) {
	test.Parallel()
	store := &stubCredentialStore{}
	manager := mustManager(test, store, testNow)
	record := testRecord(test, testNow()+3600)
	record.Token = "corrupted.token"
	record.User.DisplayName = ""
	record.User.Username = "ada"
	manager.Persist(context.Background(), record)

	identity := manager.CurrentUser(context.Background())
	if identity == nil {
		test.Fatalf("expected stored identity fallback")
	}
	if identity.DisplayName != "ada" {
		test.Fatalf("expected fallback chain on stored copy, got %q", identity.DisplayName)
	}
}

func TestCurrentUserNilWhenLoggedOut(test *testing.T) {
	test.Parallel()
	manager := mustManager(test, &stubCredentialStore{}, testNow)
	if manager.CurrentUser(context.Background()) != nil {
		test.Fatalf("expected nil identity when logged out")
	}
}
