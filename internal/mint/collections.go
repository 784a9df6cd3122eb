package mint

import (
	"context"
	"fmt"

	"xrplnft/internal/domain"
	"xrplnft/internal/media"
)

// SetCollectionAddress points the orchestrator at the issuing account the
// following mints draw slots from.
func (o *Orchestrator) SetCollectionAddress(ctx context.Context, address string) error {
	return o.tracker.SetAddress(ctx, address)
}

// CreateCollection provisions a fresh collection with a new issuing
// account and selects it for minting.
func (o *Orchestrator) CreateCollection(ctx context.Context) (*domain.Collection, error) {
	coll, err := o.rest.AssembleCollection(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	if err := o.tracker.SetAddress(ctx, coll.Issuer); err != nil {
		return nil, err
	}
	o.logger.Info().Str("issuer", coll.Issuer).Str("uid", coll.UID).Msg("collection created")
	return coll, nil
}

// UpdateCollection replaces the selected collection's metadata and cover
// media. Fails with CollectionAlreadySealed once the collection shipped.
func (o *Orchestrator) UpdateCollection(ctx context.Context, data domain.CollectionData) error {
	snapshot, err := o.tracker.Snapshot()
	if err != nil {
		return err
	}

	var cover, thumbnail string
	if len(data.Cover) > 0 {
		if cover, err = media.DataURI(data.Cover); err != nil {
			return fmt.Errorf("encode cover: %w", err)
		}
	}
	if len(data.Thumbnail) > 0 {
		if thumbnail, err = media.DataURI(data.Thumbnail); err != nil {
			return fmt.Errorf("encode thumbnail: %w", err)
		}
	}

	if err := o.rest.CoverCollection(ctx, data, snapshot.UID, snapshot.Issuer, cover, thumbnail); err != nil {
		return err
	}
	return o.tracker.Refresh(ctx)
}

// Collections lists every collection of the authenticated account.
func (o *Orchestrator) Collections(ctx context.Context) ([]domain.Collection, error) {
	return o.rest.AllCollections(ctx)
}

// Collection returns the tracked collection snapshot.
func (o *Orchestrator) Collection() (*domain.Collection, error) {
	return o.tracker.Snapshot()
}

// FreeSlots reports the selected collection's remaining mint capacity.
func (o *Orchestrator) FreeSlots() (int, error) {
	snapshot, err := o.tracker.Snapshot()
	if err != nil {
		return 0, err
	}
	return snapshot.FreeSlots(), nil
}

// BurnConfiguration exposes the current slot-purchase exchange rate.
func (o *Orchestrator) BurnConfiguration(ctx context.Context) (*domain.BurnConfiguration, error) {
	return o.rest.BurnConfig(ctx)
}
