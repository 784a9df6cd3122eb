package mint

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"xrplnft/internal/domain"
	"xrplnft/internal/xrpl"
)

// GenerateSlots purchases amount mint slots by burning the configured
// fungible token: a payment of amount times the burn rate to the burn
// issuer, validated on-ledger, then registered with the service.
func (o *Orchestrator) GenerateSlots(ctx context.Context, amount int) (*domain.BurnResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: slot amount must be positive", domain.ErrInvalidAmount)
	}

	cfg, err := o.rest.BurnConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("burn config: %w", err)
	}
	rate, err := decimal.NewFromString(cfg.BurnAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: burn amount %q", domain.ErrInvalidAmount, cfg.BurnAmount)
	}
	value := rate.Mul(decimal.NewFromInt(int64(amount)))

	tx := &domain.Transaction{
		TransactionType: domain.TxPayment,
		Account:         o.wallet.Address(),
		Destination:     cfg.BurnIssuer,
		Amount: &domain.Amount{
			Currency: cfg.BurnCurrency,
			Issuer:   cfg.BurnIssuer,
			Value:    value.String(),
		},
		Memos: []domain.MemoWrapper{domain.NewMemo(`{"type":"mint"}`)},
	}
	if err := xrpl.Autofill(ctx, o.ledger, tx); err != nil {
		return nil, err
	}
	blob, err := o.wallet.Sign(tx)
	if err != nil {
		return nil, fmt.Errorf("sign burn payment: %w", err)
	}

	txr, err := o.ledger.SubmitAndWait(ctx, blob)
	if err != nil {
		return nil, fmt.Errorf("submit burn payment: %w", err)
	}

	result, err := o.rest.RegisterBurn(ctx, txr.Hash)
	if err != nil {
		return nil, fmt.Errorf("register burn %s: %w", txr.Hash, err)
	}
	if o.metrics != nil {
		o.metrics.SlotsGenerated.Add(float64(amount))
	}
	o.logger.Info().
		Str("hash", txr.Hash).
		Int("amount", amount).
		Str("value", value.String()).
		Msg("slots generated")

	if o.tracker.Address() != "" {
		if err := o.tracker.Refresh(ctx); err != nil {
			o.logger.Warn().Err(err).Msg("collection refresh after burn")
		}
	}
	return result, nil
}
