package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"xrplnft/internal/domain"
)

// NFTData fetches the marketplace record of an NFT. A 404 means the NFT
// was not minted through the marketplace and yields nil, not an error.
func (c *Client) NFTData(ctx context.Context, nftID string) (*domain.NFTData, error) {
	var data domain.NFTData
	err := c.do(ctx, http.MethodGet, marketplaceService+"/nfts/"+nftID, nil, &data, false, false)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &data, nil
}

// ActionsOptions filters an NFT's marketplace history.
type ActionsOptions struct {
	// Types restricts results to the given action types.
	Types []string
	// Limit caps the page size; the service default is 50.
	Limit int
	// BeforeID pages backwards from a prior response's last ID.
	BeforeID int64
}

// NFTActions fetches an NFT's marketplace history, newest first.
func (c *Client) NFTActions(ctx context.Context, nftID string, opts *ActionsOptions) ([]domain.NFTAction, error) {
	query := url.Values{}
	limit := 50
	if opts != nil {
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		for _, t := range opts.Types {
			query.Add("types", t)
		}
		if opts.BeforeID > 0 {
			query.Set("before_id", strconv.FormatInt(opts.BeforeID, 10))
		}
	}
	query.Set("limit", strconv.Itoa(limit))

	var actions []domain.NFTAction
	path := marketplaceService + "/nfts/" + nftID + "/actions?" + query.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &actions, false, false); err != nil {
		return nil, err
	}
	return actions, nil
}

// PublicCollection fetches the public view of a collection.
func (c *Client) PublicCollection(ctx context.Context, collectionID string) (*domain.PublicCollection, error) {
	var coll domain.PublicCollection
	err := c.do(ctx, http.MethodGet, marketplaceService+"/collections/"+collectionID, nil, &coll, false, false)
	if err != nil {
		return nil, err
	}
	return &coll, nil
}
