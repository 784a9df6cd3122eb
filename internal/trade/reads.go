package trade

import (
	"context"
	"errors"
	"fmt"

	"xrplnft/internal/domain"
	"xrplnft/internal/rest"
	"xrplnft/internal/xrpl"
)

// GetNFT combines the marketplace record and the ledger-history view of
// one NFT. Either side may be nil when its source has no record; both
// nil means the token is unknown everywhere.
func (o *Orchestrator) GetNFT(ctx context.Context, nftID string) (*domain.FullNFTData, error) {
	marketplace, err := o.rest.NFTData(ctx, nftID)
	if err != nil {
		return nil, fmt.Errorf("marketplace nft %s: %w", nftID, err)
	}

	ledgerInfo, err := o.history.NFTInfo(ctx, nftID)
	if err != nil && !errors.Is(err, xrpl.ErrNotFound) {
		return nil, fmt.Errorf("ledger nft %s: %w", nftID, err)
	}

	return &domain.FullNFTData{
		MarketplaceInfo: marketplace,
		LedgerInfo:      ledgerInfo,
	}, nil
}

// GetAccountNFTs lists every NFT held by an account.
func (o *Orchestrator) GetAccountNFTs(ctx context.Context, account string) ([]domain.NFT, error) {
	return o.ledger.AccountNFTs(ctx, account)
}

// GetNFTActions pages through the marketplace history of an NFT.
func (o *Orchestrator) GetNFTActions(ctx context.Context, nftID string, opts *rest.ActionsOptions) ([]domain.NFTAction, error) {
	return o.rest.NFTActions(ctx, nftID, opts)
}

// GetPublicCollection fetches the marketplace view of a collection.
func (o *Orchestrator) GetPublicCollection(ctx context.Context, collectionID string) (*domain.PublicCollection, error) {
	return o.rest.PublicCollection(ctx, collectionID)
}
