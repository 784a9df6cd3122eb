package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"xrplnft/internal/addresscodec"
	"xrplnft/internal/domain"
)

// signedEnvelope is the signed transaction in transit: the unsigned fields
// plus the signing public key and signature. The relay accepts the blob as
// an opaque hex string; binary canonical serialization stays behind the
// ledger collaborator boundary.
type signedEnvelope struct {
	domain.Transaction
	SigningPubKey string `json:"SigningPubKey"`
	TxnSignature  string `json:"TxnSignature"`
}

// Sign attaches the wallet's public key, signs the canonical JSON payload
// and returns the hex-encoded signed blob.
func (w *LocalWallet) Sign(tx *domain.Transaction) (string, error) {
	if tx == nil {
		return "", domain.PropertyMissing("transaction")
	}
	if tx.Account == "" {
		tx.Account = w.address
	}
	if tx.Account != w.address {
		return "", fmt.Errorf("%w: transaction account %s does not match wallet %s",
			domain.ErrInvalidAddress, tx.Account, w.address)
	}

	env := signedEnvelope{
		Transaction:   *tx,
		SigningPubKey: strings.ToUpper(hex.EncodeToString(w.keys.publicKey())),
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal signing payload: %w", err)
	}

	sig, err := w.keys.sign(payload)
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	env.TxnSignature = strings.ToUpper(hex.EncodeToString(sig))

	blob, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal signed blob: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(blob)), nil
}

func addressOf(keys keyPair) (string, error) {
	accountID := addresscodec.AccountIDFromPublicKey(keys.publicKey())
	return addresscodec.Encode(accountID)
}
