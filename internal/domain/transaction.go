package domain

import (
	"encoding/hex"
	"strings"
)

// Transaction types submitted or relayed by the SDK.
const (
	TxPayment            = "Payment"
	TxAccountSet         = "AccountSet"
	TxNFTokenMint        = "NFTokenMint"
	TxNFTokenCreateOffer = "NFTokenCreateOffer"
	TxNFTokenAcceptOffer = "NFTokenAcceptOffer"
	TxNFTokenCancelOffer = "NFTokenCancelOffer"
)

// NFTokenCreateOffer flag marking the offer as a sell offer.
const FlagSellNFToken uint32 = 1

// Memo is a single ledger memo entry.
type Memo struct {
	MemoData string `json:"MemoData,omitempty"`
	MemoType string `json:"MemoType,omitempty"`
}

// MemoWrapper matches the ledger's STArray nesting for memos.
type MemoWrapper struct {
	Memo Memo `json:"Memo"`
}

// NewMemo builds a memo entry with hex-encoded data, the encoding the
// ledger requires for memo fields.
func NewMemo(data string) MemoWrapper {
	return MemoWrapper{Memo: Memo{MemoData: strings.ToUpper(hex.EncodeToString([]byte(data)))}}
}

// Transaction is the JSON form of an unsigned ledger transaction. It covers
// the fields this SDK constructs or autofills; wire-level binary
// serialization is the wallet/ledger collaborator's concern.
type Transaction struct {
	TransactionType    string        `json:"TransactionType"`
	Account            string        `json:"Account,omitempty"`
	Flags              uint32        `json:"Flags,omitempty"`
	Fee                string        `json:"Fee,omitempty"`
	Sequence           uint32        `json:"Sequence,omitempty"`
	LastLedgerSequence uint32        `json:"LastLedgerSequence,omitempty"`
	Memos              []MemoWrapper `json:"Memos,omitempty"`

	// Payment
	Amount      *Amount `json:"Amount,omitempty"`
	Destination string  `json:"Destination,omitempty"`

	// NFTokenMint
	NFTokenTaxon uint32 `json:"NFTokenTaxon,omitempty"`
	TransferFee  uint16 `json:"TransferFee,omitempty"`
	Issuer       string `json:"Issuer,omitempty"`
	URI          string `json:"URI,omitempty"`

	// NFToken offers
	NFTokenID        string   `json:"NFTokenID,omitempty"`
	Owner            string   `json:"Owner,omitempty"`
	NFTokenSellOffer string   `json:"NFTokenSellOffer,omitempty"`
	NFTokenBuyOffer  string   `json:"NFTokenBuyOffer,omitempty"`
	NFTokenBrokerFee *Amount  `json:"NFTokenBrokerFee,omitempty"`
	NFTokenOffers    []string `json:"NFTokenOffers,omitempty"`
	Expiration       uint32   `json:"Expiration,omitempty"`
}

// SubmitResult is the outcome of submitting a signed blob to the ledger.
type SubmitResult struct {
	Hash      string
	Validated bool
}
