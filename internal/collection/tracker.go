// Package collection maintains the process-local view of one active
// minting collection and its slots.
package collection

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"xrplnft/internal/addresscodec"
	"xrplnft/internal/domain"
	"xrplnft/internal/log"
)

// Fetcher pulls full collection state from the remote service.
// *rest.Client satisfies it.
type Fetcher interface {
	AssembleCollection(ctx context.Context, issuer string) (*domain.Collection, error)
}

// Tracker is the sole in-process owner of collection/slot state. Readers
// see whole snapshots only: Refresh swaps the cached value atomically, so
// a concurrent reader never observes a partial update.
type Tracker struct {
	fetcher Fetcher
	logger  zerolog.Logger

	mu       sync.RWMutex
	address  string
	snapshot *domain.Collection
}

// NewTracker creates an empty tracker. SetAddress activates it.
func NewTracker(fetcher Fetcher) *Tracker {
	return &Tracker{
		fetcher: fetcher,
		logger:  log.Collection,
	}
}

// SetAddress selects the active collection and synchronously refreshes
// its state. A REST failure propagates and leaves the previous state
// untouched.
func (t *Tracker) SetAddress(ctx context.Context, address string) error {
	if !addresscodec.IsValid(address) {
		return fmt.Errorf("set collection: %w: %q", domain.ErrInvalidAddress, address)
	}

	coll, err := t.fetcher.AssembleCollection(ctx, address)
	if err != nil {
		return fmt.Errorf("refresh collection %s: %w", address, err)
	}

	t.mu.Lock()
	t.address = address
	t.snapshot = coll
	t.mu.Unlock()

	t.logger.Debug().Str("issuer", address).Int("slots", len(coll.NFTs)).
		Int("free", coll.FreeSlots()).Msg("collection activated")
	return nil
}

// Refresh refetches the active collection and replaces the cached
// snapshot wholesale.
func (t *Tracker) Refresh(ctx context.Context) error {
	address := t.Address()
	if address == "" {
		return domain.ErrCollectionNotSet
	}

	coll, err := t.fetcher.AssembleCollection(ctx, address)
	if err != nil {
		return fmt.Errorf("refresh collection %s: %w", address, err)
	}

	t.mu.Lock()
	// The address may have been switched while the fetch was in flight;
	// never install a stale collection over the new one.
	if t.address == address {
		t.snapshot = coll
	}
	t.mu.Unlock()
	return nil
}

// Address returns the active collection address, or "" when unset.
func (t *Tracker) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.address
}

// Snapshot returns a copy of the last-refreshed collection state.
func (t *Tracker) Snapshot() (*domain.Collection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.snapshot == nil {
		return nil, domain.ErrCollectionNotSet
	}
	copied := *t.snapshot
	copied.NFTs = append([]domain.NFTSlot(nil), t.snapshot.NFTs...)
	return &copied, nil
}

// AcquireEmptySlot returns the first free slot of the last-refreshed
// snapshot. It never calls the remote service; slot state is only as
// fresh as the last Refresh.
func (t *Tracker) AcquireEmptySlot() (domain.NFTSlot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.snapshot == nil {
		return domain.NFTSlot{}, domain.ErrCollectionNotSet
	}
	for _, slot := range t.snapshot.NFTs {
		if slot.IsFree() {
			return slot, nil
		}
	}
	return domain.NFTSlot{}, domain.ErrNftSlotsNotAvailable
}
