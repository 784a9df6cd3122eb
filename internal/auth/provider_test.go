package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrplnft/internal/domain"
)

type stubWallet struct {
	address string
	signed  int
	err     error
}

func (w *stubWallet) Address() string { return w.address }

func (w *stubWallet) Sign(tx *domain.Transaction) (string, error) {
	w.signed++
	if w.err != nil {
		return "", w.err
	}
	return tx.Memos[0].Memo.MemoData, nil
}

func TestProvider_RequiresWallet(t *testing.T) {
	_, err := NewProvider(nil)
	assert.True(t, errors.Is(err, domain.ErrWalletNotConnected))
}

func TestProvider_HeadersShape(t *testing.T) {
	w := &stubWallet{address: "rrrrrrrrrrrrrrrrrrrrrhoLvTp"}
	p, err := NewProvider(w)
	require.NoError(t, err)

	headers, err := p.Headers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, w.address, headers["address"])
	assert.NotEmpty(t, headers["authorization"])

	// The credential memo carries the sign-in marker.
	decoded, err := hex.DecodeString(headers["authorization"])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(decoded), signInMemoPrefix))
}

func TestProvider_LeaseReuse(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	w := &stubWallet{address: "rrrrrrrrrrrrrrrrrrrrrhoLvTp"}
	p, err := NewProvider(w, WithTTL(time.Minute), WithClock(clock))
	require.NoError(t, err)

	_, err = p.Headers(context.Background())
	require.NoError(t, err)
	_, err = p.Headers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, w.signed)

	// Past the TTL the credential is regenerated.
	now = now.Add(61 * time.Second)
	_, err = p.Headers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, w.signed)
}

func TestProvider_SignFailurePropagates(t *testing.T) {
	w := &stubWallet{address: "rrrrrrrrrrrrrrrrrrrrrhoLvTp", err: errors.New("no key")}
	p, err := NewProvider(w)
	require.NoError(t, err)

	_, err = p.Headers(context.Background())
	require.Error(t, err)

	// A failed generation leaves no lease behind.
	w.err = nil
	headers, err := p.Headers(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, headers["authorization"])
}
