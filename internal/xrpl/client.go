// Package xrpl is the ledger-client collaborator: a WebSocket JSON-RPC
// client for ledger queries and signed-blob submission.
package xrpl

import (
	"context"

	"xrplnft/internal/domain"
)

// Client is the ledger RPC surface the orchestrators depend on.
type Client interface {
	// Connect establishes the WebSocket connection. Connecting an already
	// connected client is a no-op.
	Connect(ctx context.Context) error

	// IsConnected reports whether the connection is established.
	IsConnected() bool

	// Close tears the connection down.
	Close() error

	// Request performs a raw ledger command and decodes the result into
	// result when non-nil.
	Request(ctx context.Context, command string, params map[string]any, result any) error

	// AccountInfo returns the account sequence and current ledger index,
	// the two inputs of transaction autofill.
	AccountInfo(ctx context.Context, account string) (*AccountInfoResult, error)

	// Tx fetches a transaction's finalized record with metadata.
	Tx(ctx context.Context, hash string) (*TxResult, error)

	// SubmitAndWait submits a signed blob and waits until the ledger
	// reports it validated.
	SubmitAndWait(ctx context.Context, blob string) (*TxResult, error)

	// AccountNFTs pages through account_nfts until the marker is spent.
	AccountNFTs(ctx context.Context, account string) ([]domain.NFT, error)

	// NFTOffers fetches the sell or buy offer book of an NFT. A
	// nonexistent offer book yields an empty list, not an error.
	NFTOffers(ctx context.Context, nftID string, side OfferSide) ([]domain.Offer, error)

	// NFTInfo queries the ledger-history service for an NFT's record.
	NFTInfo(ctx context.Context, nftID string) (*domain.NFTLedgerInfo, error)
}

// OfferSide selects the sell or buy offer book.
type OfferSide string

const (
	SideSell OfferSide = "sell"
	SideBuy  OfferSide = "buy"
)

// LedgerSequenceWindow bounds how many ledgers a signed transaction stays
// eligible for inclusion: LastLedgerSequence = current index + window.
const LedgerSequenceWindow = 15

// MinimumFeeXRP is the fixed fee attached to autofilled transactions.
const MinimumFeeXRP = "0.001"
