package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Manager derives and maintains the current session over a CredentialStore.
// Every method is total: malformed or missing state reads as logged-out,
// and store failures are logged and collapsed into the absent result so the
// consuming UI never has to handle a credential error.
type Manager struct {
	store  CredentialStore
	nowFn  func() int64
	logger *zap.Logger
}

// ManagerOption configures a Manager instance.
type ManagerOption func(*Manager)

// WithLogger wires a zap logger for store-failure diagnostics.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(manager *Manager) {
		if logger != nil {
			manager.logger = logger
		}
	}
}

// NewManager wires a Manager.
func NewManager(store CredentialStore, now func() int64, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session: store dependency is nil")
	}
	if now == nil {
		return nil, fmt.Errorf("session: clock dependency is nil")
	}
	manager := &Manager{store: store, nowFn: now, logger: zap.NewNop()}
	for _, option := range options {
		if option != nil {
			option(manager)
		}
	}
	return manager, nil
}

// Persist writes the full credential record. Reports false when the store
// rejected the write; the previous record, if any, is then still in effect.
func (manager *Manager) Persist(ctx context.Context, record CredentialRecord) bool {
	if err := manager.store.Save(ctx, record); err != nil {
		manager.logger.Warn("credential persist failed", zap.Error(err))
		return false
	}
	return true
}

// Load returns the stored credential record, or nil when no complete record
// exists.
func (manager *Manager) Load(ctx context.Context) *CredentialRecord {
	record, err := manager.store.Load(ctx)
	if err != nil {
		manager.logger.Warn("credential load failed", zap.Error(err))
		return nil
	}
	return record
}

// Clear removes the stored credential record. Idempotent.
func (manager *Manager) Clear(ctx context.Context) {
	if err := manager.store.Clear(ctx); err != nil {
		manager.logger.Warn("credential clear failed", zap.Error(err))
	}
}

// IsAuthenticated reports whether a stored, unexpired credential exists.
// An expired record self-evicts on this check; there is no background
// timer.
func (manager *Manager) IsAuthenticated(ctx context.Context) bool {
	record := manager.Load(ctx)
	if record == nil {
		return false
	}
	if record.ExpiresAtUnixUTC == 0 || record.ExpiresAtUnixUTC <= manager.nowFn() {
		manager.Clear(ctx)
		return false
	}
	return true
}

// Token returns the stored bearer token, or empty when logged out.
func (manager *Manager) Token(ctx context.Context) string {
	record := manager.Load(ctx)
	if record == nil {
		return ""
	}
	return record.Token
}

// CurrentUser returns the signed-in identity. The live token is preferred
// so role or staff changes take effect without a re-login; the stored copy
// is the fallback when the token no longer decodes, with the display-name
// chain re-applied before returning it.
func (manager *Manager) CurrentUser(ctx context.Context) *Identity {
	record := manager.Load(ctx)
	if record == nil {
		return nil
	}
	if identity := DeriveIdentity(record.Token); identity != nil {
		return identity
	}
	stored := record.User
	stored.DisplayName = resolveDisplayName(stored.DisplayName, stored.Username, stored.Email)
	return &stored
}
