// Package addresscodec converts between classic ledger addresses and their
// 20-byte account ID form.
package addresscodec

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"

	"xrplnft/internal/domain"
)

// The ledger's base58 dialect reorders the bitcoin alphabet so common
// address prefixes map to memorable leading characters.
var rippleAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

// AccountIDLength is the byte length of a decoded account ID.
const AccountIDLength = 20

// accountAddressPrefix is the version byte for classic addresses ("r...").
const accountAddressPrefix = 0x00

const checksumLength = 4

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLength]
}

// Decode parses a classic address into its 20-byte account ID. Fails with
// domain.ErrInvalidAddress on bad alphabet, version, length or checksum.
func Decode(address string) ([]byte, error) {
	raw, err := base58.DecodeAlphabet(address, rippleAlphabet)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrInvalidAddress, address, err)
	}
	if len(raw) != 1+AccountIDLength+checksumLength {
		return nil, fmt.Errorf("%w: %q: wrong payload length %d", domain.ErrInvalidAddress, address, len(raw))
	}
	if raw[0] != accountAddressPrefix {
		return nil, fmt.Errorf("%w: %q: wrong version byte %#x", domain.ErrInvalidAddress, address, raw[0])
	}
	body := raw[:1+AccountIDLength]
	if !bytes.Equal(checksum(body), raw[1+AccountIDLength:]) {
		return nil, fmt.Errorf("%w: %q: checksum mismatch", domain.ErrInvalidAddress, address)
	}
	out := make([]byte, AccountIDLength)
	copy(out, body[1:])
	return out, nil
}

// Encode renders a 20-byte account ID as a classic address.
func Encode(accountID []byte) (string, error) {
	if len(accountID) != AccountIDLength {
		return "", fmt.Errorf("%w: account ID must be %d bytes, got %d",
			domain.ErrInvalidAddress, AccountIDLength, len(accountID))
	}
	payload := make([]byte, 0, 1+AccountIDLength+checksumLength)
	payload = append(payload, accountAddressPrefix)
	payload = append(payload, accountID...)
	payload = append(payload, checksum(payload)...)
	return base58.EncodeAlphabet(payload, rippleAlphabet), nil
}

// AccountIDFromPublicKey derives the 20-byte account ID of a compressed
// public key: RIPEMD160(SHA256(pubkey)).
func AccountIDFromPublicKey(pubKey []byte) []byte {
	sha := sha256.Sum256(pubKey)
	ripe := ripemd160.New()
	ripe.Write(sha[:])
	return ripe.Sum(nil)
}

// IsValid reports whether address decodes as a classic address.
func IsValid(address string) bool {
	_, err := Decode(address)
	return err == nil
}
