package wallet

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"github.com/mr-tron/base58"

	"xrplnft/internal/domain"
)

type keyFamily int

const (
	familySecp256k1 keyFamily = iota
	familyEd25519
)

const seedEntropyLength = 16

// Seed version prefixes. Classic seeds use a single 0x21 byte; ed25519
// seeds use the three-byte 0x01E14B prefix so they render as "sEd...".
var (
	seedPrefixSecp256k1 = []byte{0x21}
	seedPrefixEd25519   = []byte{0x01, 0xE1, 0x4B}
)

var seedAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

func seedChecksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}

func decodeSeed(seed string) ([]byte, keyFamily, error) {
	raw, err := base58.DecodeAlphabet(seed, seedAlphabet)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: seed is not base58", domain.ErrInvalidAddress)
	}
	if len(raw) < 5 {
		return nil, 0, fmt.Errorf("%w: seed too short", domain.ErrInvalidAddress)
	}
	body, check := raw[:len(raw)-4], raw[len(raw)-4:]
	if !bytes.Equal(seedChecksum(body), check) {
		return nil, 0, fmt.Errorf("%w: seed checksum mismatch", domain.ErrInvalidAddress)
	}

	switch {
	case bytes.HasPrefix(body, seedPrefixEd25519) && len(body) == len(seedPrefixEd25519)+seedEntropyLength:
		return body[len(seedPrefixEd25519):], familyEd25519, nil
	case bytes.HasPrefix(body, seedPrefixSecp256k1) && len(body) == len(seedPrefixSecp256k1)+seedEntropyLength:
		return body[len(seedPrefixSecp256k1):], familySecp256k1, nil
	}
	return nil, 0, fmt.Errorf("%w: unrecognized seed prefix", domain.ErrInvalidAddress)
}

// EncodeSeed renders 16 bytes of entropy as a family seed. Used by tests
// and key generation tooling.
func EncodeSeed(entropy []byte, family keyFamily) (string, error) {
	if len(entropy) != seedEntropyLength {
		return "", fmt.Errorf("%w: entropy must be %d bytes", domain.ErrInvalidAddress, seedEntropyLength)
	}
	var prefix []byte
	switch family {
	case familyEd25519:
		prefix = seedPrefixEd25519
	case familySecp256k1:
		prefix = seedPrefixSecp256k1
	default:
		return "", fmt.Errorf("%w: unknown seed family", domain.ErrInvalidAddress)
	}
	body := append(append([]byte{}, prefix...), entropy...)
	body = append(body, seedChecksum(body)...)
	return base58.EncodeAlphabet(body, seedAlphabet), nil
}

// Ed25519Family and Secp256k1Family expose the seed families to callers of
// EncodeSeed without leaking the internal enum values.
const (
	Ed25519Family   = familyEd25519
	Secp256k1Family = familySecp256k1
)

// sha512Half is the ledger's standard hash truncation: the first 256 bits
// of SHA-512.
func sha512Half(data []byte) []byte {
	full := sha512.Sum512(data)
	return full[:32]
}
