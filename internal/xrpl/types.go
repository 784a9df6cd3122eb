package xrpl

import (
	"github.com/goccy/go-json"

	"xrplnft/internal/domain"
)

// AccountInfoResult carries the autofill inputs from account_info.
type AccountInfoResult struct {
	Sequence           uint32
	CurrentLedgerIndex uint32
}

type accountInfoResponse struct {
	AccountData struct {
		Sequence uint32 `json:"Sequence"`
	} `json:"account_data"`
	LedgerCurrentIndex uint32 `json:"ledger_current_index"`
	LedgerIndex        uint32 `json:"ledger_index"`
}

// AffectedNode is one entry of a transaction's metadata node list. Only
// the shapes the SDK inspects are modeled.
type AffectedNode struct {
	ModifiedNode *ModifiedNode `json:"ModifiedNode,omitempty"`
}

// ModifiedNode is a ledger entry modified by a transaction.
type ModifiedNode struct {
	LedgerEntryType string          `json:"LedgerEntryType"`
	FinalFields     json.RawMessage `json:"FinalFields,omitempty"`
	PreviousFields  json.RawMessage `json:"PreviousFields,omitempty"`
}

// AccountRootFields is the subset of AccountRoot fields the mint
// confirmation step reads.
type AccountRootFields struct {
	Account       string  `json:"Account"`
	MintedNFTokens *uint32 `json:"MintedNFTokens,omitempty"`
}

// TxMeta is finalized transaction metadata.
type TxMeta struct {
	AffectedNodes     []AffectedNode `json:"AffectedNodes"`
	TransactionResult string         `json:"TransactionResult"`
}

// TxResult is a transaction record as returned by the tx command.
type TxResult struct {
	Hash         string  `json:"hash"`
	Account      string  `json:"Account"`
	Issuer       string  `json:"Issuer,omitempty"`
	Flags        uint32  `json:"Flags"`
	TransferFee  uint16  `json:"TransferFee"`
	NFTokenTaxon uint32  `json:"NFTokenTaxon"`
	Validated    bool    `json:"validated"`
	Meta         *TxMeta `json:"meta"`
}

// MintAccount returns the account whose minted-token counter the mint
// touched: the Issuer for delegated mints, the Account otherwise.
func (t *TxResult) MintAccount() string {
	if t.Issuer != "" {
		return t.Issuer
	}
	return t.Account
}

type accountNFTsResponse struct {
	AccountNFTs []domain.NFT    `json:"account_nfts"`
	Marker      json.RawMessage `json:"marker,omitempty"`
}

type nftOffersResponse struct {
	Offers []domain.Offer `json:"offers"`
}

type submitResponse struct {
	EngineResult string `json:"engine_result"`
	TxJSON       struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}
