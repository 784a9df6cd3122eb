package mint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"xrplnft/internal/domain"
	"xrplnft/internal/media"
	"xrplnft/internal/nftid"
	"xrplnft/internal/xrpl"
)

// Mint runs the full pipeline for one NFT. When the collection has no
// free slot and opts.AutoCompensate is set, it purchases one slot batch
// and retries exactly once; a second exhaustion fails.
func (o *Orchestrator) Mint(ctx context.Context, payload *domain.NFTPayload, opts MintOptions) (*domain.MintResult, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	if o.metrics != nil {
		o.metrics.MintsStarted.Inc()
		start := time.Now()
		defer func() { o.metrics.MintDuration.Observe(time.Since(start).Seconds()) }()
	}

	result, err := o.mintOnce(ctx, payload, opts)
	if err != nil && errors.Is(err, domain.ErrNftSlotsNotAvailable) && opts.AutoCompensate {
		st := StateSlotExhausted
		o.logger.Info().Str("name", payload.Name).Msg("slots exhausted, compensating")
		if o.metrics != nil {
			o.metrics.SlotCompensations.Inc()
		}
		if _, cerr := o.GenerateSlots(ctx, 1); cerr != nil {
			o.countFailure(cerr)
			return nil, fmt.Errorf("compensate slot exhaustion: %w", cerr)
		}
		o.transition(&st, StateSlotsGenerated)
		o.transition(&st, StateIdle)
		result, err = o.mintOnce(ctx, payload, opts)
	}
	if err != nil {
		o.countFailure(err)
		return nil, err
	}
	if o.metrics != nil {
		o.metrics.MintsConfirmed.Inc()
	}
	return result, nil
}

func (o *Orchestrator) countFailure(err error) {
	if o.metrics != nil {
		o.metrics.MintFailures.WithLabelValues(string(domain.KindOf(err))).Inc()
	}
}

// mintOnce runs a single attempt of the pipeline, without compensation.
func (o *Orchestrator) mintOnce(ctx context.Context, payload *domain.NFTPayload, opts MintOptions) (*domain.MintResult, error) {
	st := StateIdle

	slot, err := o.tracker.AcquireEmptySlot()
	if err != nil {
		return nil, err
	}
	issuer := o.tracker.Address()
	o.transition(&st, StateSlotAcquired)

	fileURI, err := media.DataURI(payload.File)
	if err != nil {
		return nil, fmt.Errorf("encode file: %w", err)
	}
	thumbURI, err := media.DataURI(payload.Thumbnail)
	if err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := o.rest.UploadNFT(ctx, issuer, slot.UID, *payload, fileURI, thumbURI); err != nil {
		return nil, fmt.Errorf("upload nft: %w", err)
	}
	o.transition(&st, StateUploaded)

	if err := o.rest.ShipCollection(ctx, issuer); err != nil {
		return nil, fmt.Errorf("ship collection: %w", err)
	}
	o.transition(&st, StateShipped)

	tx, err := o.rest.PrepareMint(ctx, slot.UID, opts.OnBehalf)
	if err != nil {
		return nil, fmt.Errorf("prepare mint: %w", err)
	}
	if err := xrpl.Autofill(ctx, o.ledger, tx); err != nil {
		return nil, err
	}
	o.transition(&st, StateTxPrepared)

	blob, err := o.wallet.Sign(tx)
	if err != nil {
		return nil, fmt.Errorf("sign mint: %w", err)
	}
	o.transition(&st, StateTxSigned)

	hash, err := o.rest.SubmitMint(ctx, blob, slot.UID)
	if err != nil {
		return nil, fmt.Errorf("submit mint: %w", err)
	}
	o.transition(&st, StateSubmitted)

	nftokenID, err := o.confirm(ctx, hash)
	if err != nil {
		return nil, err
	}
	o.transition(&st, StateConfirmed)

	if err := o.tracker.Refresh(ctx); err != nil {
		o.logger.Warn().Err(err).Msg("collection refresh after mint")
	}

	o.logger.Info().
		Str("hash", hash).
		Str("nftoken_id", nftokenID).
		Str("slot", slot.UID).
		Msg("mint confirmed")
	return &domain.MintResult{MintTxHash: hash, NFTokenID: nftokenID}, nil
}

// confirm fetches the finalized mint transaction and derives the token ID
// from its metadata. The minted-token counter lives on the minting
// account's AccountRoot entry; its pre-transaction value is the sequence
// baked into the ID.
func (o *Orchestrator) confirm(ctx context.Context, hash string) (string, error) {
	txr, err := o.ledger.Tx(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("confirm mint %s: %w", hash, err)
	}
	if txr.Meta == nil {
		return "", fmt.Errorf("confirm mint %s: %w", hash, domain.ErrMalformedLedgerResponse)
	}
	sequence, err := mintSequence(txr)
	if err != nil {
		return "", fmt.Errorf("confirm mint %s: %w", hash, err)
	}
	return nftid.Encode(uint16(txr.Flags), txr.TransferFee, txr.MintAccount(), txr.NFTokenTaxon, sequence)
}

// mintSequence extracts the pre-mint MintedNFTokens counter from the
// modified AccountRoot of the minting account. An absent or ambiguous
// node makes the response unusable and is never retried.
func mintSequence(txr *xrpl.TxResult) (uint32, error) {
	account := txr.MintAccount()

	var found bool
	var sequence uint32
	for _, node := range txr.Meta.AffectedNodes {
		mod := node.ModifiedNode
		if mod == nil || mod.LedgerEntryType != "AccountRoot" || len(mod.FinalFields) == 0 {
			continue
		}
		var final xrpl.AccountRootFields
		if err := json.Unmarshal(mod.FinalFields, &final); err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrMalformedLedgerResponse, err)
		}
		if final.Account != account {
			continue
		}
		if found {
			return 0, fmt.Errorf("%w: multiple AccountRoot nodes for %s", domain.ErrMalformedLedgerResponse, account)
		}
		found = true

		// MintedNFTokens is omitted from PreviousFields for the very
		// first mint; the counter starts at zero.
		if len(mod.PreviousFields) > 0 {
			var prev xrpl.AccountRootFields
			if err := json.Unmarshal(mod.PreviousFields, &prev); err != nil {
				return 0, fmt.Errorf("%w: %v", domain.ErrMalformedLedgerResponse, err)
			}
			if prev.MintedNFTokens != nil {
				sequence = *prev.MintedNFTokens
			}
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: no AccountRoot node for %s", domain.ErrMalformedLedgerResponse, account)
	}
	return sequence, nil
}

// MintMultipleCopies mints up to opts.Copies identical NFTs sequentially.
// The batch is best effort: the first failure stops it, and the partial
// result reports what was minted alongside the stopping error.
func (o *Orchestrator) MintMultipleCopies(ctx context.Context, payload *domain.NFTPayload, opts BatchOptions) (*domain.BatchMintResult, error) {
	if opts.Copies <= 0 {
		return nil, fmt.Errorf("%w: copies must be positive", domain.ErrInvalidAmount)
	}
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	result := &domain.BatchMintResult{NFTs: make([]domain.MintResult, 0, opts.Copies)}
	single := MintOptions{OnBehalf: opts.OnBehalf, AutoCompensate: opts.AutoCompensate}
	for i := 0; i < opts.Copies; i++ {
		minted, err := o.Mint(ctx, payload, single)
		if err != nil {
			o.logger.Warn().Err(err).Int("copy", i+1).Int("requested", opts.Copies).Msg("batch mint stopped")
			result.Err = err
			break
		}
		result.NFTs = append(result.NFTs, *minted)
		result.CopiesMinted++
	}
	return result, nil
}
