package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrplnft/internal/domain"
)

const testIssuer = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"

type stubFetcher struct {
	collection *domain.Collection
	err        error
	calls      int
}

func (f *stubFetcher) AssembleCollection(_ context.Context, issuer string) (*domain.Collection, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c := *f.collection
	c.Issuer = issuer
	return &c, nil
}

func slots(used, free int) []domain.NFTSlot {
	consumed := "nft"
	out := make([]domain.NFTSlot, 0, used+free)
	for i := 0; i < used; i++ {
		out = append(out, domain.NFTSlot{UID: "used", Currency: &consumed})
	}
	for i := 0; i < free; i++ {
		out = append(out, domain.NFTSlot{UID: "free", Currency: nil})
	}
	return out
}

func TestTracker_SetAddressFetches(t *testing.T) {
	fetcher := &stubFetcher{collection: &domain.Collection{UID: "c1", NFTs: slots(2, 3)}}
	tracker := NewTracker(fetcher)

	require.NoError(t, tracker.SetAddress(context.Background(), testIssuer))
	assert.Equal(t, testIssuer, tracker.Address())

	snapshot, err := tracker.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.FreeSlots())
	assert.Equal(t, 1, fetcher.calls)
}

func TestTracker_SetAddressRejectsInvalid(t *testing.T) {
	tracker := NewTracker(&stubFetcher{})
	err := tracker.SetAddress(context.Background(), "not-an-address")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidAddress))
	assert.Empty(t, tracker.Address())
}

func TestTracker_SetAddressFetchFailureKeepsState(t *testing.T) {
	fetcher := &stubFetcher{collection: &domain.Collection{UID: "c1", NFTs: slots(0, 1)}}
	tracker := NewTracker(fetcher)
	require.NoError(t, tracker.SetAddress(context.Background(), testIssuer))

	fetcher.err = errors.New("service down")
	err := tracker.SetAddress(context.Background(), "rrrrrrrrrrrrrrrrrrrrBZbvji")
	require.Error(t, err)

	// The previous collection stays active.
	assert.Equal(t, testIssuer, tracker.Address())
}

func TestTracker_SnapshotBeforeSetAddress(t *testing.T) {
	tracker := NewTracker(&stubFetcher{})
	_, err := tracker.Snapshot()
	assert.True(t, errors.Is(err, domain.ErrCollectionNotSet))

	_, err = tracker.AcquireEmptySlot()
	assert.True(t, errors.Is(err, domain.ErrCollectionNotSet))

	err = tracker.Refresh(context.Background())
	assert.True(t, errors.Is(err, domain.ErrCollectionNotSet))
}

func TestTracker_AcquireEmptySlot(t *testing.T) {
	fetcher := &stubFetcher{collection: &domain.Collection{UID: "c1", NFTs: slots(1, 2)}}
	tracker := NewTracker(fetcher)
	require.NoError(t, tracker.SetAddress(context.Background(), testIssuer))

	slot, err := tracker.AcquireEmptySlot()
	require.NoError(t, err)
	assert.True(t, slot.IsFree())
}

func TestTracker_AcquireEmptySlotExhausted(t *testing.T) {
	fetcher := &stubFetcher{collection: &domain.Collection{UID: "c1", NFTs: slots(4, 0)}}
	tracker := NewTracker(fetcher)
	require.NoError(t, tracker.SetAddress(context.Background(), testIssuer))

	_, err := tracker.AcquireEmptySlot()
	assert.True(t, errors.Is(err, domain.ErrNftSlotsNotAvailable))
}

func TestTracker_SnapshotIsACopy(t *testing.T) {
	fetcher := &stubFetcher{collection: &domain.Collection{UID: "c1", NFTs: slots(0, 2)}}
	tracker := NewTracker(fetcher)
	require.NoError(t, tracker.SetAddress(context.Background(), testIssuer))

	first, err := tracker.Snapshot()
	require.NoError(t, err)
	consumed := "nft"
	first.NFTs[0].Currency = &consumed

	second, err := tracker.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2, second.FreeSlots())
}

func TestTracker_RefreshReplacesSnapshot(t *testing.T) {
	fetcher := &stubFetcher{collection: &domain.Collection{UID: "c1", NFTs: slots(0, 2)}}
	tracker := NewTracker(fetcher)
	require.NoError(t, tracker.SetAddress(context.Background(), testIssuer))

	fetcher.collection = &domain.Collection{UID: "c1", NFTs: slots(2, 5)}
	require.NoError(t, tracker.Refresh(context.Background()))

	snapshot, err := tracker.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 5, snapshot.FreeSlots())
}
