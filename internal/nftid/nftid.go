// Package nftid derives the ledger-wide NFT identifier from mint
// transaction metadata.
//
// The identifier is a fixed 256-bit layout:
//
//	flags (16) ‖ royalty (16) ‖ issuer account ID (160) ‖ masked taxon (32) ‖ sequence (32)
//
// rendered as 64 uppercase hex characters. The taxon is scrambled with a
// sequence-keyed constant so identifiers cannot be enumerated by taxon,
// while anyone who knows the mint sequence can recover it.
package nftid

import (
	"fmt"
	"strings"

	"xrplnft/internal/addresscodec"
)

// Taxon scrambling constants fixed by the ledger's NFT standard.
const (
	taxonMulMask = 384160001
	taxonAddMask = 2459
)

// MaskTaxon scrambles a taxon for embedding in the public identifier.
// The operation is its own inverse for a fixed sequence.
func MaskTaxon(taxon, sequence uint32) uint32 {
	return taxon ^ (taxonMulMask*sequence + taxonAddMask)
}

// UnmaskTaxon recovers the caller-chosen taxon from a masked one.
func UnmaskTaxon(masked, sequence uint32) uint32 {
	return MaskTaxon(masked, sequence)
}

// Encode derives the token identifier from the five mint-result fields.
// sequence is the issuer's minted-token count immediately before the mint.
// The only failure mode is a malformed issuer address.
func Encode(flags uint16, royalty uint16, issuer string, taxon, sequence uint32) (string, error) {
	accountID, err := addresscodec.Decode(issuer)
	if err != nil {
		return "", fmt.Errorf("encode nft id: %w", err)
	}

	var b strings.Builder
	b.Grow(64)
	fmt.Fprintf(&b, "%04X", flags)
	fmt.Fprintf(&b, "%04X", royalty)
	fmt.Fprintf(&b, "%040X", accountID)
	fmt.Fprintf(&b, "%08X", MaskTaxon(taxon, sequence))
	fmt.Fprintf(&b, "%08X", sequence)
	return b.String(), nil
}
