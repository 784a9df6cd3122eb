// Package offers holds the pure validation rules applied before brokered
// NFT offer settlement.
package offers

import (
	"fmt"

	"github.com/shopspring/decimal"

	"xrplnft/internal/domain"
)

// ValidateMatch checks that sell and buy may be settled together by broker.
// Rules, in order:
//   - sell must carry the sell-offer flag
//   - buy must not carry it
//   - a sell destination, when set, must be the broker or the buyer
//   - currency and issuer must match and buy value must cover sell value
//
// The checks touch no network state; both offers are ledger records the
// caller already fetched.
func ValidateMatch(sell, buy *domain.Offer, broker string) error {
	if !sell.IsSell() {
		return fmt.Errorf("offer %s: %w", sell.NFTOfferIndex, domain.ErrInvalidSellOffer)
	}
	if buy.IsSell() {
		return fmt.Errorf("offer %s: %w", buy.NFTOfferIndex, domain.ErrInvalidBuyOffer)
	}
	if sell.Destination != "" && sell.Destination != broker && sell.Destination != buy.Owner {
		return fmt.Errorf("offer %s: %w", sell.NFTOfferIndex, domain.ErrInvalidDestination)
	}

	if sell.Amount.IsNative() != buy.Amount.IsNative() ||
		(!sell.Amount.IsNative() && sell.Amount.Currency != buy.Amount.Currency) ||
		sell.Amount.Issuer != buy.Amount.Issuer {
		return domain.ErrOffersDoNotMatch
	}

	sellValue, err := sell.Amount.Decimal()
	if err != nil {
		return err
	}
	buyValue, err := buy.Amount.Decimal()
	if err != nil {
		return err
	}
	if sellValue.GreaterThan(buyValue) {
		return domain.ErrOffersDoNotMatch
	}
	return nil
}

// MaxBrokerFee computes the largest fee a broker may retain: the buy value
// minus the sell value, in the shared settlement currency. Decimal
// subtraction avoids float rounding on issued-currency values; for the
// native asset the result is an exact drops difference.
func MaxBrokerFee(sell, buy *domain.Offer) (domain.Amount, error) {
	sellValue, err := sell.Amount.Decimal()
	if err != nil {
		return domain.Amount{}, err
	}
	buyValue, err := buy.Amount.Decimal()
	if err != nil {
		return domain.Amount{}, err
	}
	diff := buyValue.Sub(sellValue)
	if diff.IsNegative() {
		diff = decimal.Zero
	}

	if sell.Amount.IsNative() {
		return domain.XRPAmount(diff.String()), nil
	}
	return domain.Amount{
		Currency: sell.Amount.Currency,
		Issuer:   sell.Amount.Issuer,
		Value:    diff.String(),
	}, nil
}
