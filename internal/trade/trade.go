// Package trade drives NFT offer lifecycle on the ledger: listing,
// bidding, direct and brokered acceptance, and cancellation.
package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"xrplnft/internal/domain"
	"xrplnft/internal/log"
	"xrplnft/internal/observability"
	"xrplnft/internal/offers"
	"xrplnft/internal/rest"
	"xrplnft/internal/wallet"
	"xrplnft/internal/xrpl"
)

// Orchestrator submits offer transactions and reads NFT state. All
// transactions are autofilled, signed by the wallet and submitted with
// validation polling.
type Orchestrator struct {
	ledger  xrpl.Client
	history xrpl.Client
	rest    *rest.Client
	wallet  wallet.Wallet
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// Options for creating an Orchestrator. History is the ledger-history
// endpoint used for nft_info queries; when nil the main ledger client is
// used. Metrics is optional.
type Options struct {
	Ledger  xrpl.Client
	History xrpl.Client
	Rest    *rest.Client
	Wallet  wallet.Wallet
	Metrics *observability.Metrics
}

// New validates the wiring and creates an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	switch {
	case opts.Ledger == nil:
		return nil, domain.PropertyMissing("ledger client")
	case opts.Rest == nil:
		return nil, domain.PropertyMissing("rest client")
	case opts.Wallet == nil:
		return nil, domain.ErrWalletNotConnected
	}
	history := opts.History
	if history == nil {
		history = opts.Ledger
	}
	return &Orchestrator{
		ledger:  opts.Ledger,
		history: history,
		rest:    opts.Rest,
		wallet:  opts.Wallet,
		metrics: opts.Metrics,
		logger:  log.Trade,
	}, nil
}

// SellOptions tunes SetForSale.
type SellOptions struct {
	// Destination restricts who may accept the offer.
	Destination string
	// ExpiresAt makes the offer lapse at the given time.
	ExpiresAt *time.Time
}

// BidOptions tunes PlaceBid.
type BidOptions struct {
	// ExpiresAt makes the bid lapse at the given time.
	ExpiresAt *time.Time
}

// submit autofills, signs and submits one offer transaction, recording
// metrics under txType.
func (o *Orchestrator) submit(ctx context.Context, tx *domain.Transaction, txType string) (string, error) {
	hash, err := o.submitInner(ctx, tx)
	if o.metrics != nil {
		if err != nil {
			o.metrics.TradeFailures.WithLabelValues(string(domain.KindOf(err))).Inc()
		} else {
			o.metrics.TradesSubmitted.WithLabelValues(txType).Inc()
		}
	}
	if err != nil {
		return "", err
	}
	o.logger.Info().Str("type", txType).Str("hash", hash).Msg("trade submitted")
	return hash, nil
}

func (o *Orchestrator) submitInner(ctx context.Context, tx *domain.Transaction) (string, error) {
	tx.Account = o.wallet.Address()
	if err := xrpl.Autofill(ctx, o.ledger, tx); err != nil {
		return "", err
	}
	blob, err := o.wallet.Sign(tx)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", tx.TransactionType, err)
	}
	txr, err := o.ledger.SubmitAndWait(ctx, blob)
	if err != nil {
		return "", fmt.Errorf("submit %s: %w", tx.TransactionType, err)
	}
	return txr.Hash, nil
}

// SetForSale lists an NFT: a sell offer at the given price, optionally
// restricted to a destination and bounded by an expiration.
func (o *Orchestrator) SetForSale(ctx context.Context, nftID string, amount domain.Amount, opts SellOptions) (string, error) {
	if _, err := amount.Decimal(); err != nil {
		return "", err
	}
	tx := &domain.Transaction{
		TransactionType: domain.TxNFTokenCreateOffer,
		Flags:           domain.FlagSellNFToken,
		NFTokenID:       nftID,
		Amount:          &amount,
		Destination:     opts.Destination,
	}
	if opts.ExpiresAt != nil {
		tx.Expiration = xrpl.ToRippleTime(*opts.ExpiresAt)
	}
	return o.submit(ctx, tx, "sell_offer")
}

// PlaceBid creates a buy offer for an NFT held by owner. Issued-currency
// bids must name the issuer.
func (o *Orchestrator) PlaceBid(ctx context.Context, nftID, owner string, amount domain.Amount, opts BidOptions) (string, error) {
	if _, err := amount.Decimal(); err != nil {
		return "", err
	}
	if !amount.IsNative() && amount.Issuer == "" {
		return "", fmt.Errorf("%w: issued currency bid without issuer", domain.ErrInvalidAmount)
	}
	if owner == "" {
		return "", domain.PropertyMissing("nft owner")
	}
	tx := &domain.Transaction{
		TransactionType: domain.TxNFTokenCreateOffer,
		NFTokenID:       nftID,
		Owner:           owner,
		Amount:          &amount,
	}
	if opts.ExpiresAt != nil {
		tx.Expiration = xrpl.ToRippleTime(*opts.ExpiresAt)
	}
	return o.submit(ctx, tx, "buy_offer")
}

// AcceptOfferOptions selects the side of the book an offer index names.
type AcceptOfferOptions struct {
	// IsBuy accepts the index as a buy offer. Sell by default.
	IsBuy bool
}

// AcceptOffer settles a single offer by index. The caller states the
// side; it is never inferred from ledger state.
func (o *Orchestrator) AcceptOffer(ctx context.Context, offerIndex string, opts AcceptOfferOptions) (string, error) {
	if offerIndex == "" {
		return "", domain.PropertyMissing("offer index")
	}
	tx := &domain.Transaction{TransactionType: domain.TxNFTokenAcceptOffer}
	txType := "accept_sell"
	if opts.IsBuy {
		tx.NFTokenBuyOffer = offerIndex
		txType = "accept_buy"
	} else {
		tx.NFTokenSellOffer = offerIndex
	}
	return o.submit(ctx, tx, txType)
}

// BrokerOffers settles a matched sell and buy offer pair in broker mode,
// validating the match first. A nil brokerFee settles without a fee;
// MaxFee retains the full spread.
func (o *Orchestrator) BrokerOffers(ctx context.Context, sell, buy *domain.Offer, brokerFee *domain.Amount) (string, error) {
	broker := o.wallet.Address()
	if err := offers.ValidateMatch(sell, buy, broker); err != nil {
		if o.metrics != nil {
			o.metrics.TradeFailures.WithLabelValues(string(domain.KindOf(err))).Inc()
		}
		return "", err
	}
	tx := &domain.Transaction{
		TransactionType:  domain.TxNFTokenAcceptOffer,
		NFTokenSellOffer: sell.NFTOfferIndex,
		NFTokenBuyOffer:  buy.NFTOfferIndex,
		NFTokenBrokerFee: brokerFee,
	}
	return o.submit(ctx, tx, "broker")
}

// MaxFee computes the largest broker fee a matched offer pair can bear.
func (o *Orchestrator) MaxFee(sell, buy *domain.Offer) (domain.Amount, error) {
	return offers.MaxBrokerFee(sell, buy)
}

// CancelOffers withdraws offers by index in a single transaction.
func (o *Orchestrator) CancelOffers(ctx context.Context, offerIndexes []string) (string, error) {
	if len(offerIndexes) == 0 {
		return "", domain.PropertyMissing("offer indexes")
	}
	tx := &domain.Transaction{
		TransactionType: domain.TxNFTokenCancelOffer,
		NFTokenOffers:   offerIndexes,
	}
	return o.submit(ctx, tx, "cancel")
}

// OfferBook is both sides of an NFT's offer book.
type OfferBook struct {
	Sell []domain.Offer
	Buy  []domain.Offer
}

// GetOffers fetches both offer books of an NFT. A missing book yields an
// empty slice.
func (o *Orchestrator) GetOffers(ctx context.Context, nftID string) (*OfferBook, error) {
	sell, err := o.ledger.NFTOffers(ctx, nftID, xrpl.SideSell)
	if err != nil {
		return nil, fmt.Errorf("sell offers %s: %w", nftID, err)
	}
	buy, err := o.ledger.NFTOffers(ctx, nftID, xrpl.SideBuy)
	if err != nil {
		return nil, fmt.Errorf("buy offers %s: %w", nftID, err)
	}
	return &OfferBook{Sell: sell, Buy: buy}, nil
}
