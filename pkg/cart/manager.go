package cart

import (
	"context"
	"fmt"
)

const (
	operationFetch  = "fetch"
	operationAdd    = "add"
	operationUpdate = "update"
	operationRemove = "remove"
	operationClear  = "clear"

	operationStatusOK         = "ok"
	operationStatusError      = "error"
	operationStatusRolledBack = "rolled_back"

	errorOperationCart = "cart"
	errorCodeRemote    = "remote"
	errorCodeRefetch   = "refetch"
	errorCodePrecheck  = "precondition"
)

// Manager keeps a locally held cart list responsive while staying
// eventually consistent with the server. Mutations apply optimistically and
// a failed mutation is compensated by re-fetching the authoritative list.
//
// Manager is not safe for concurrent use: the caller is expected to await
// each operation before issuing the next. Concurrent mutations against the
// same item id may race; the manager does not queue or reorder calls.
type Manager struct {
	api    API
	auth   Authorizer
	logger OperationLogger
	items  []LineItem
	state  State
}

// NewManager wires a Manager.
func NewManager(api API, auth Authorizer, options ...ManagerOption) (*Manager, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: api dependency is nil", ErrInvalidManagerCfg)
	}
	if auth == nil {
		return nil, fmt.Errorf("%w: authorizer dependency is nil", ErrInvalidManagerCfg)
	}
	manager := &Manager{api: api, auth: auth, state: StateEmpty}
	for _, option := range options {
		if option != nil {
			option(manager)
		}
	}
	return manager, nil
}

// Items returns a copy of the current line items.
func (manager *Manager) Items() []LineItem {
	items := make([]LineItem, len(manager.items))
	copy(items, manager.items)
	return items
}

// State returns the cart lifecycle state.
func (manager *Manager) State() State {
	return manager.state
}

// DerivedCount sums quantities across items, for the cart badge.
func (manager *Manager) DerivedCount() int64 {
	var count int64
	for _, item := range manager.items {
		count += item.Quantity
	}
	return count
}

// DerivedTotalCents sums unit price times quantity in integer cents. The
// total is recomputed on every read and never stored.
func (manager *Manager) DerivedTotalCents() AmountCents {
	var total int64
	for _, item := range manager.items {
		total += item.UnitPriceCents.Int64() * item.Quantity
	}
	return AmountCents(total)
}

// FetchAll replaces local state wholesale with the server's list.
func (manager *Manager) FetchAll(ctx context.Context) error {
	previous := manager.state
	manager.state = StateLoading
	items, err := manager.api.FetchItems(ctx)
	if err != nil {
		manager.state = previous
		wrapped := WrapError(errorOperationCart, operationFetch, errorCodeRemote, err)
		manager.logOperation(ctx, OperationLog{Operation: operationFetch, Error: wrapped})
		return wrapped
	}
	manager.items = items
	manager.settle()
	manager.logOperation(ctx, OperationLog{Operation: operationFetch, Status: operationStatusOK})
	return nil
}

// AddItem requests an add and reconciles. The server may answer with a
// merged line item when the key is already carted, so a successful add is
// always followed by an authoritative re-fetch. On failure the local list
// is left exactly as it was.
func (manager *Manager) AddItem(ctx context.Context, gameKeyID string, quantity int64) error {
	entry := OperationLog{Operation: operationAdd, GameKeyID: gameKeyID, Quantity: quantity}
	if !manager.auth.IsAuthenticated(ctx) {
		wrapped := WrapError(errorOperationCart, operationAdd, errorCodePrecheck, ErrNotAuthenticated)
		entry.Error = wrapped
		manager.logOperation(ctx, entry)
		return wrapped
	}
	if quantity < 1 {
		wrapped := WrapError(errorOperationCart, operationAdd, errorCodePrecheck, ErrInvalidQuantity)
		entry.Error = wrapped
		manager.logOperation(ctx, entry)
		return wrapped
	}

	manager.state = StateMutating
	item, err := manager.api.AddItem(ctx, gameKeyID, quantity)
	if err != nil {
		manager.settle()
		wrapped := WrapError(errorOperationCart, operationAdd, errorCodeRemote, err)
		entry.Error = wrapped
		manager.logOperation(ctx, entry)
		return wrapped
	}
	manager.upsertItem(item)
	if err := manager.refetch(ctx); err != nil {
		wrapped := WrapError(errorOperationCart, operationAdd, errorCodeRefetch, err)
		entry.Error = wrapped
		manager.logOperation(ctx, entry)
		return wrapped
	}
	entry.ItemID = item.ID
	entry.Status = operationStatusOK
	manager.logOperation(ctx, entry)
	return nil
}

// UpdateQuantity optimistically rewrites the quantity, then confirms with
// the server. Quantities below one are rejected without a network call and
// without touching local state.
func (manager *Manager) UpdateQuantity(ctx context.Context, itemID string, quantity int64) error {
	entry := OperationLog{Operation: operationUpdate, ItemID: itemID, Quantity: quantity}
	if quantity < 1 {
		wrapped := WrapError(errorOperationCart, operationUpdate, errorCodePrecheck, ErrInvalidQuantity)
		entry.Error = wrapped
		manager.logOperation(ctx, entry)
		return wrapped
	}
	index := manager.indexOf(itemID)
	if index < 0 {
		wrapped := WrapError(errorOperationCart, operationUpdate, errorCodePrecheck, ErrUnknownItem)
		entry.Error = wrapped
		manager.logOperation(ctx, entry)
		return wrapped
	}

	return manager.mutate(ctx, entry,
		func() {
			manager.items[index].Quantity = quantity
		},
		func(ctx context.Context) error {
			_, err := manager.api.UpdateQuantity(ctx, itemID, quantity)
			return err
		},
	)
}

// RemoveItem optimistically filters the item out, then confirms with the
// server. A failed delete re-fetches, so the item reappears if it was never
// removed server-side.
func (manager *Manager) RemoveItem(ctx context.Context, itemID string) error {
	entry := OperationLog{Operation: operationRemove, ItemID: itemID}
	return manager.mutate(ctx, entry,
		func() {
			retained := manager.items[:0]
			for _, item := range manager.items {
				if item.ID != itemID {
					retained = append(retained, item)
				}
			}
			manager.items = retained
		},
		func(ctx context.Context) error {
			return manager.api.RemoveItem(ctx, itemID)
		},
	)
}

// Clear optimistically empties the cart, then confirms with the server.
func (manager *Manager) Clear(ctx context.Context) error {
	entry := OperationLog{Operation: operationClear}
	return manager.mutate(ctx, entry,
		func() {
			manager.items = nil
		},
		func(ctx context.Context) error {
			return manager.api.Clear(ctx)
		},
	)
}

// mutate is the one optimistic-mutation path: apply the local change,
// invoke the remote operation, and on failure discard local optimism by
// re-fetching the authoritative list. Local state is never treated as more
// correct than the server.
func (manager *Manager) mutate(ctx context.Context, entry OperationLog, applyLocal func(), remote func(ctx context.Context) error) error {
	manager.state = StateMutating
	applyLocal()
	err := remote(ctx)
	if err == nil {
		manager.settle()
		entry.Status = operationStatusOK
		manager.logOperation(ctx, entry)
		return nil
	}

	entry.Status = operationStatusRolledBack
	manager.state = StateRolledBack
	if refetchErr := manager.refetch(ctx); refetchErr != nil {
		// Compensating fetch failed as well; local state stays
		// divergent until the next successful FetchAll.
		entry.Error = WrapError(errorOperationCart, entry.Operation, errorCodeRefetch, refetchErr)
		manager.logOperation(ctx, entry)
		return WrapError(errorOperationCart, entry.Operation, errorCodeRemote, err)
	}
	wrapped := WrapError(errorOperationCart, entry.Operation, errorCodeRemote, err)
	entry.Error = wrapped
	manager.logOperation(ctx, entry)
	return wrapped
}

func (manager *Manager) refetch(ctx context.Context) error {
	items, err := manager.api.FetchItems(ctx)
	if err != nil {
		return err
	}
	manager.items = items
	manager.settle()
	return nil
}

func (manager *Manager) upsertItem(item LineItem) {
	if index := manager.indexOf(item.ID); index >= 0 {
		manager.items[index] = item
		return
	}
	manager.items = append(manager.items, item)
}

func (manager *Manager) indexOf(itemID string) int {
	for index, item := range manager.items {
		if item.ID == itemID {
			return index
		}
	}
	return -1
}

func (manager *Manager) settle() {
	if len(manager.items) == 0 {
		manager.state = StateEmpty
		return
	}
	manager.state = StateReady
}

func (manager *Manager) logOperation(ctx context.Context, entry OperationLog) {
	if manager.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	manager.logger.LogOperation(ctx, entry)
}
