package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"xrplnft/internal/domain"
)

// invalidIssuingAddress is the service's rejection message for updates to
// a finalized collection.
const invalidIssuingAddress = "invalid_issuing_address"

// AssembleCollection creates a fresh collection when issuer is empty, or
// fetches the full state of an existing one. Server-internal bookkeeping
// fields are dropped during decoding.
func (c *Client) AssembleCollection(ctx context.Context, issuer string) (*domain.Collection, error) {
	var body any
	if issuer != "" {
		body = map[string]string{"issuer": issuer}
	}
	var coll domain.Collection
	err := c.do(ctx, http.MethodPost, minterService+"/collection/assemble", body, &coll, true, true)
	if err != nil {
		return nil, err
	}
	return &coll, nil
}

// coverRequest is the collection update payload. Media fields are base64
// data URIs; empty strings clear nothing server-side.
type coverRequest struct {
	domain.CollectionData
	Cover     string `json:"cover"`
	Thumbnail string `json:"thumbnail"`
	UID       string `json:"uid"`
	Issuer    string `json:"issuer"`
}

// CoverCollection updates a collection's metadata and cover media. A
// finalized collection fails with CollectionAlreadySealed.
func (c *Client) CoverCollection(ctx context.Context, data domain.CollectionData, uid, issuer, cover, thumbnail string) error {
	req := coverRequest{
		CollectionData: data,
		Cover:          cover,
		Thumbnail:      thumbnail,
		UID:            uid,
		Issuer:         issuer,
	}
	err := c.do(ctx, http.MethodPost, minterService+"/collection/cover", req, nil, true, false)
	if err != nil && strings.Contains(err.Error(), invalidIssuingAddress) {
		return domain.ErrCollectionAlreadySealed
	}
	return err
}

type shipResponse struct {
	Shipped bool `json:"shipped"`
}

// ShipCollection finalizes the collection standard. Idempotent: shipping
// an already-shipped collection still reports success.
func (c *Client) ShipCollection(ctx context.Context, issuer string) error {
	body := map[string]string{
		"issuer":   issuer,
		"standard": "xls20d",
	}
	var resp shipResponse
	if err := c.do(ctx, http.MethodPost, minterService+"/collection/ship", body, &resp, true, true); err != nil {
		return err
	}
	if !resp.Shipped {
		return fmt.Errorf("ship collection %s: %w", issuer, domain.ErrUnknown)
	}
	return nil
}

// AllCollections lists every collection owned by the authenticated
// account.
func (c *Client) AllCollections(ctx context.Context) ([]domain.Collection, error) {
	var colls []domain.Collection
	err := c.do(ctx, http.MethodGet, minterService+"/collection/all", nil, &colls, true, true)
	if err != nil {
		return nil, err
	}
	return colls, nil
}

// uploadRequest carries one NFT payload keyed by its slot.
type uploadRequest struct {
	Issuer  string        `json:"issuer"`
	Payload uploadPayload `json:"payload"`
	UID     string        `json:"uid"`
}

type uploadPayload struct {
	domain.NFTPayload
	// File and Thumbnail override the raw-bytes fields with data URIs.
	File      string `json:"file"`
	Thumbnail string `json:"thumbnail"`
}

// UploadNFT submits the payload for the slot identified by uid.
func (c *Client) UploadNFT(ctx context.Context, issuer, uid string, payload domain.NFTPayload, fileURI, thumbURI string) error {
	req := uploadRequest{
		Issuer: issuer,
		UID:    uid,
		Payload: uploadPayload{
			NFTPayload: payload,
			File:       fileURI,
			Thumbnail:  thumbURI,
		},
	}
	return c.do(ctx, http.MethodPost, minterService+"/nft/upload", req, nil, true, false)
}

type prepareMintResponse struct {
	Tx domain.Transaction `json:"tx"`
}

// PrepareMint requests the server-constructed unsigned mint transaction
// for an uploaded slot. onBehalf delegates the mint to another account.
func (c *Client) PrepareMint(ctx context.Context, uid, onBehalf string) (*domain.Transaction, error) {
	body := map[string]string{"uid": uid}
	if onBehalf != "" {
		body["on_behalf"] = onBehalf
	}
	var resp prepareMintResponse
	if err := c.do(ctx, http.MethodPost, minterService+"/nft/prepareMint", body, &resp, true, true); err != nil {
		return nil, err
	}
	return &resp.Tx, nil
}

type submitMintResponse struct {
	Hash string `json:"hash"`
}

// SubmitMint relays the signed mint blob to the ledger through the
// service and returns the resulting transaction hash.
func (c *Client) SubmitMint(ctx context.Context, blob, uid string) (string, error) {
	body := map[string]string{
		"mint_tx_blob": blob,
		"uid":          uid,
	}
	var resp submitMintResponse
	if err := c.do(ctx, http.MethodPost, minterService+"/nft/mint", body, &resp, true, true); err != nil {
		return "", err
	}
	if resp.Hash == "" {
		return "", domain.RemoteError("mint response missing transaction hash", nil)
	}
	return resp.Hash, nil
}

// BurnConfig fetches the slot-purchase exchange rate. Not enveloped and
// not authenticated.
func (c *Client) BurnConfig(ctx context.Context) (*domain.BurnConfiguration, error) {
	var cfg domain.BurnConfiguration
	if err := c.do(ctx, http.MethodGet, minterService+"/solo/burn_config", nil, &cfg, false, false); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RegisterBurn reports a validated slot-purchase payment to the service,
// which credits the slots.
func (c *Client) RegisterBurn(ctx context.Context, txHash string) (*domain.BurnResult, error) {
	body := map[string]string{
		"hash": txHash,
		"type": "mint",
	}
	var result domain.BurnResult
	if err := c.do(ctx, http.MethodPost, minterService+"/solo/burn", body, &result, true, false); err != nil {
		return nil, err
	}
	return &result, nil
}
