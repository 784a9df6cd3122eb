package xrpl

import (
	"context"
	"fmt"

	"xrplnft/internal/domain"
)

// Autofill fills Sequence, LastLedgerSequence and Fee on an unsigned
// transaction from the submitting account's current ledger state. Fields
// already set by the caller are kept.
func Autofill(ctx context.Context, c Client, tx *domain.Transaction) error {
	if tx.Account == "" {
		return domain.PropertyMissing("transaction account")
	}
	info, err := c.AccountInfo(ctx, tx.Account)
	if err != nil {
		return fmt.Errorf("autofill %s: %w", tx.Account, err)
	}
	if tx.Sequence == 0 {
		tx.Sequence = info.Sequence
	}
	if tx.LastLedgerSequence == 0 {
		tx.LastLedgerSequence = info.CurrentLedgerIndex + LedgerSequenceWindow
	}
	if tx.Fee == "" {
		drops, err := domain.XRPAmount(MinimumFeeXRP).Drops()
		if err != nil {
			return err
		}
		tx.Fee = drops
	}
	return nil
}
