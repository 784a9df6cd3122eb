package wallet

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"xrplnft/internal/domain"
)

// edPublicKeyPrefix distinguishes ed25519 public keys on the ledger.
const edPublicKeyPrefix = 0xED

// ed25519KeyPair derives its private key as SHA512Half(entropy).
type ed25519KeyPair struct {
	priv ed25519.PrivateKey
	pub  []byte // 33 bytes, 0xED prefixed
}

func deriveEd25519(entropy []byte) (*ed25519KeyPair, error) {
	priv := ed25519.NewKeyFromSeed(sha512Half(entropy))
	raw := priv.Public().(ed25519.PublicKey)

	// A freshly derived key is always on the curve; the check guards the
	// same decode path used for externally supplied public keys.
	if err := validateEdPoint(raw); err != nil {
		return nil, err
	}

	pub := make([]byte, 0, 33)
	pub = append(pub, edPublicKeyPrefix)
	pub = append(pub, raw...)
	return &ed25519KeyPair{priv: priv, pub: pub}, nil
}

func (k *ed25519KeyPair) publicKey() []byte { return k.pub }

func (k *ed25519KeyPair) sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, message), nil
}

// validateEdPoint rejects public key bytes that do not decode to a
// canonical point on the edwards curve.
func validateEdPoint(raw []byte) error {
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("%w: public key not on curve", domain.ErrInvalidAddress)
	}
	return nil
}

// secp256k1KeyPair follows the ledger's classic account-key derivation:
// a root key from the seed entropy, then an intermediate key folded in to
// produce account keys, each scalar found by hashing with an incrementing
// 32-bit counter until it lands in the group order.
type secp256k1KeyPair struct {
	priv *secp256k1.PrivateKey
	pub  []byte // 33 bytes compressed
}

func deriveSecp256k1(entropy []byte) (*secp256k1KeyPair, error) {
	rootScalar, err := scalarFromSeq(entropy, nil)
	if err != nil {
		return nil, err
	}
	rootPriv := secp256k1.NewPrivateKey(rootScalar)
	rootPub := rootPriv.PubKey().SerializeCompressed()

	// Account index 0 is the only account this SDK derives.
	accountIndex := uint32(0)
	interScalar, err := scalarFromSeq(rootPub, &accountIndex)
	if err != nil {
		return nil, err
	}

	accountScalar := *rootScalar
	accountScalar.Add(interScalar)
	if accountScalar.IsZero() {
		return nil, fmt.Errorf("%w: degenerate account key", domain.ErrInvalidAddress)
	}
	priv := secp256k1.NewPrivateKey(&accountScalar)
	return &secp256k1KeyPair{
		priv: priv,
		pub:  priv.PubKey().SerializeCompressed(),
	}, nil
}

// scalarFromSeq hashes material (plus an optional big-endian account
// index) with an incrementing sequence suffix until the result is a valid
// nonzero group scalar.
func scalarFromSeq(material []byte, accountIndex *uint32) (*secp256k1.ModNScalar, error) {
	buf := make([]byte, 0, len(material)+8)
	buf = append(buf, material...)
	if accountIndex != nil {
		buf = binary.BigEndian.AppendUint32(buf, *accountIndex)
	}
	base := len(buf)
	buf = append(buf, 0, 0, 0, 0)

	for seq := uint32(0); seq < 1<<16; seq++ {
		binary.BigEndian.PutUint32(buf[base:], seq)
		candidate := sha512Half(buf)

		scalar := new(secp256k1.ModNScalar)
		overflow := scalar.SetByteSlice(candidate)
		if !overflow && !scalar.IsZero() {
			return scalar, nil
		}
	}
	return nil, fmt.Errorf("%w: no valid key scalar found", domain.ErrInvalidAddress)
}

func (k *secp256k1KeyPair) publicKey() []byte { return k.pub }

func (k *secp256k1KeyPair) sign(message []byte) ([]byte, error) {
	digest := sha512Half(message)
	sig := ecdsa.Sign(k.priv, digest)
	return sig.Serialize(), nil
}
