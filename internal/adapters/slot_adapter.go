package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"wealthify/internal/core"
	"wealthify/internal/storage"
)

// SlotAdapter adapts the slot store to the ledger's persistence port.
// The whole aggregate is serialized into a single slot, so every save
// replaces the previous snapshot.
type SlotAdapter struct {
	store *storage.Store
}

func NewSlotAdapter(store *storage.Store) *SlotAdapter {
	return &SlotAdapter{store: store}
}

// SaveAggregate implements ledger.Slot.
func (a *SlotAdapter) SaveAggregate(ctx context.Context, data core.FinancialData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal aggregate: %w", err)
	}
	return a.store.Put(ctx, storage.SlotFinancialData, payload)
}

// LoadAggregate implements ledger.Slot. The second return is false when
// no snapshot has been persisted yet.
func (a *SlotAdapter) LoadAggregate(ctx context.Context) (core.FinancialData, bool, error) {
	payload, ok, err := a.store.Get(ctx, storage.SlotFinancialData)
	if err != nil || !ok {
		return core.FinancialData{}, false, err
	}
	var data core.FinancialData
	if err := json.Unmarshal(payload, &data); err != nil {
		return core.FinancialData{}, false, fmt.Errorf("unmarshal aggregate: %w", err)
	}
	return data, true, nil
}

// ClearAggregate implements ledger.Slot.
func (a *SlotAdapter) ClearAggregate(ctx context.Context) error {
	return a.store.Delete(ctx, storage.SlotFinancialData)
}
