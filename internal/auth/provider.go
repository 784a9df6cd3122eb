// Package auth produces the short-lived bearer credential for
// authenticated REST calls. The credential is a sign-in transaction blob:
// the service verifies the signature to authenticate the address.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"xrplnft/internal/domain"
	"xrplnft/internal/log"
	"xrplnft/internal/wallet"
)

// DefaultTTL is how long one signed credential is served before a fresh
// one is generated.
const DefaultTTL = 60 * time.Second

// signInMemoPrefix marks the credential transaction's purpose.
const signInMemoPrefix = "sign_in___"

// Lease is one generated credential with its expiry.
type Lease struct {
	Headers   map[string]string
	ExpiresAt time.Time
}

// Provider hands out valid auth headers, regenerating the underlying
// credential on demand once the lease expires. It implements
// rest.HeaderProvider.
type Provider struct {
	wallet wallet.Wallet
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu    sync.Mutex
	lease *Lease
}

// Option configures Provider.
type Option func(*Provider)

// WithTTL overrides the credential lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider creates a provider bound to the signing wallet.
func NewProvider(w wallet.Wallet, opts ...Option) (*Provider, error) {
	if w == nil {
		return nil, domain.ErrWalletNotConnected
	}
	p := &Provider{
		wallet: w,
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: log.Auth,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Headers returns valid auth headers, regenerating the credential when
// the current lease has expired. Regeneration is idempotent; racing
// callers at worst sign one extra credential.
func (p *Provider) Headers(_ context.Context) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lease != nil && p.now().Before(p.lease.ExpiresAt) {
		return p.lease.Headers, nil
	}

	lease, err := p.generate()
	if err != nil {
		return nil, err
	}
	p.lease = lease
	return lease.Headers, nil
}

// generate signs the fixed-shape sign-in transaction: an AccountSet with
// a timestamped memo, never submitted to the ledger.
func (p *Provider) generate() (*Lease, error) {
	stamp := p.now().UTC().Format("2006-01-02 15:04:05.000")
	tx := &domain.Transaction{
		TransactionType: domain.TxAccountSet,
		Account:         p.wallet.Address(),
		Memos:           []domain.MemoWrapper{domain.NewMemo(signInMemoPrefix + stamp)},
	}

	blob, err := p.wallet.Sign(tx)
	if err != nil {
		return nil, fmt.Errorf("sign credential: %w", err)
	}

	p.logger.Debug().Str("address", p.wallet.Address()).Msg("auth credential regenerated")
	return &Lease{
		Headers: map[string]string{
			"authorization": blob,
			"address":       p.wallet.Address(),
		},
		ExpiresAt: p.now().Add(p.ttl),
	}, nil
}
