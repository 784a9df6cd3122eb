// Package mint drives the multi-step pipeline that turns an NFT payload
// into a confirmed, identified, on-ledger token.
package mint

import (
	"fmt"

	"github.com/rs/zerolog"

	"xrplnft/internal/collection"
	"xrplnft/internal/domain"
	"xrplnft/internal/log"
	"xrplnft/internal/observability"
	"xrplnft/internal/rest"
	"xrplnft/internal/wallet"
	"xrplnft/internal/xrpl"
)

// State labels the mint pipeline's progress. Transitions are strictly
// forward within one attempt; the compensating branch returns to
// StateIdle for the single retry.
type State int

const (
	StateIdle State = iota
	StateSlotAcquired
	StateUploaded
	StateShipped
	StateTxPrepared
	StateTxSigned
	StateSubmitted
	StateConfirmed

	// Compensating branch
	StateSlotExhausted
	StateSlotsGenerated
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateSlotAcquired:   "slot_acquired",
	StateUploaded:       "uploaded",
	StateShipped:        "shipped",
	StateTxPrepared:     "tx_prepared",
	StateTxSigned:       "tx_signed",
	StateSubmitted:      "submitted",
	StateConfirmed:      "confirmed",
	StateSlotExhausted:  "slot_exhausted",
	StateSlotsGenerated: "slots_generated",
}

func (s State) String() string { return stateNames[s] }

// Orchestrator owns the mint pipeline and the slot-exhaustion retry
// policy. All collection mutation flows through it back into the
// tracker's refresh.
type Orchestrator struct {
	ledger  xrpl.Client
	rest    *rest.Client
	tracker *collection.Tracker
	wallet  wallet.Wallet
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// Options for creating an Orchestrator. Metrics is optional.
type Options struct {
	Ledger  xrpl.Client
	Rest    *rest.Client
	Tracker *collection.Tracker
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
	case opts.Tracker == nil:
		return nil, domain.PropertyMissing("collection tracker")
	case opts.Wallet == nil:
		return nil, domain.ErrWalletNotConnected
	}
	return &Orchestrator{
		ledger:  opts.Ledger,
		rest:    opts.Rest,
		tracker: opts.Tracker,
		wallet:  opts.Wallet,
		metrics: opts.Metrics,
		logger:  log.Mint,
	}, nil
}

// MintOptions tunes one mint.
type MintOptions struct {
	// OnBehalf mints on behalf of a delegate account.
	OnBehalf string
	// AutoCompensate buys one slot batch and retries once when the
	// collection has no free slots.
	AutoCompensate bool
}

// BatchOptions tunes MintMultipleCopies.
type BatchOptions struct {
	Copies         int
	OnBehalf       string
	AutoCompensate bool
}

func (o *Orchestrator) transition(st *State, next State) {
	o.logger.Debug().Stringer("from", *st).Stringer("to", next).Msg("mint state")
	*st = next
}

func validatePayload(payload *domain.NFTPayload) error {
	if payload == nil {
		return domain.PropertyMissing("payload")
	}
	if len(payload.File) == 0 {
		return domain.PropertyMissing("payload file")
	}
	if len(payload.Thumbnail) == 0 {
		return domain.PropertyMissing("payload thumbnail")
	}
	if payload.Name == "" {
		return domain.PropertyMissing("payload name")
	}
	if !payload.Category.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, payload.Category)
	}
	if payload.TransferFee > domain.MaxTransferFee {
		return fmt.Errorf("%w: transfer fee %d exceeds %d",
			domain.ErrInvalidAmount, payload.TransferFee, domain.MaxTransferFee)
	}
	return nil
}
