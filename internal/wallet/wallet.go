// Package wallet holds the signing credential used by the SDK. The wallet
// is owned by the caller and never persisted beyond process memory.
package wallet

import (
	"fmt"

	"xrplnft/internal/domain"
)

// Wallet exposes a classic address and a signing capability. Orchestrators
// depend on this interface only; any signer implementation works.
type Wallet interface {
	// Address returns the classic address of the signing account.
	Address() string

	// Sign signs an unsigned transaction and returns the signed blob in
	// the form the ledger relay accepts. Wire-level serialization is the
	// signer's concern, not the orchestrators'.
	Sign(tx *domain.Transaction) (string, error)
}

// keyPair is the common surface of the two supported key families.
type keyPair interface {
	publicKey() []byte
	sign(message []byte) ([]byte, error)
}

// LocalWallet signs in process with a seed-derived keypair.
type LocalWallet struct {
	keys    keyPair
	address string
}

// FromSeed derives a wallet from a family seed ("s..." classic seeds are
// secp256k1, "sEd..." seeds are ed25519).
func FromSeed(seed string) (*LocalWallet, error) {
	entropy, family, err := decodeSeed(seed)
	if err != nil {
		return nil, err
	}

	var keys keyPair
	switch family {
	case familyEd25519:
		keys, err = deriveEd25519(entropy)
	case familySecp256k1:
		keys, err = deriveSecp256k1(entropy)
	default:
		err = fmt.Errorf("%w: unknown seed family", domain.ErrInvalidAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("derive keypair: %w", err)
	}

	address, err := addressOf(keys)
	if err != nil {
		return nil, err
	}
	return &LocalWallet{keys: keys, address: address}, nil
}

// Address returns the wallet's classic address.
func (w *LocalWallet) Address() string { return w.address }

// PublicKey returns the compressed public key bytes.
func (w *LocalWallet) PublicKey() []byte { return w.keys.publicKey() }
