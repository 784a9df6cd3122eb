package domain

// Category is the fixed enumerated set of NFT categories accepted by the
// remote service.
type Category string

const (
	CategoryArt          Category = "art"
	CategoryMotion       Category = "motion"
	CategoryMusic        Category = "music"
	CategoryMetaverse    Category = "metaverse"
	CategorySports       Category = "sports"
	CategoryOthers       Category = "others"
	CategoryTradingCards Category = "tradingcards"
	CategoryCollectibles Category = "collectibles"
)

// IsValid checks membership in the known category set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryArt, CategoryMotion, CategoryMusic, CategoryMetaverse,
		CategorySports, CategoryOthers, CategoryTradingCards, CategoryCollectibles:
		return true
	}
	return false
}

// MaxTransferFee is the upper bound of the royalty field: 50000 equals 100%.
const MaxTransferFee = 50000

// Attribute is a single display trait attached to an NFT payload.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
	MaxValue  any    `json:"max_value,omitempty"`
}

// NFTPayload is the caller-supplied content and metadata for one mint.
// File and Thumbnail are raw media bytes; the orchestrator encodes them as
// base64 data URIs with a sniffed MIME type before upload.
type NFTPayload struct {
	File        []byte      `json:"file"`
	Thumbnail   []byte      `json:"thumbnail"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	IsExplicit  bool        `json:"is_explicit"`
	OnlyXRP     bool        `json:"only_xrp"`
	TransferFee uint16      `json:"transfer_fee,omitempty"`
	Description string      `json:"description,omitempty"`
	ExternalURL string      `json:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// MintResult identifies one confirmed mint. Immutable once returned.
type MintResult struct {
	MintTxHash string `json:"mint_tx_hash"`
	NFTokenID  string `json:"NFTokenID"`
}

// BatchMintResult is the best-effort outcome of MintMultipleCopies. Err
// preserves the kind of the failure that stopped the batch, if any.
type BatchMintResult struct {
	CopiesMinted int          `json:"copies_minted"`
	NFTs         []MintResult `json:"nfts"`
	Err          error        `json:"-"`
}

// NFT is one entry of an account_nfts ledger response.
type NFT struct {
	Flags        uint32 `json:"Flags"`
	Issuer       string `json:"Issuer"`
	NFTokenID    string `json:"NFTokenID"`
	NFTokenTaxon uint32 `json:"NFTokenTaxon"`
	URI          string `json:"URI,omitempty"`
	Serial       uint32 `json:"nft_serial"`
}

// Offer is a ledger-native NFT offer record. Sourced from the ledger; the
// SDK never constructs one except as a transaction request.
type Offer struct {
	Flags         uint32 `json:"flags"`
	Amount        Amount `json:"amount"`
	Owner         string `json:"owner"`
	Destination   string `json:"destination,omitempty"`
	Expiration    uint32 `json:"expiration,omitempty"`
	NFTOfferIndex string `json:"nft_offer_index"`
}

// IsSell reports whether the offer is a sell offer: the flags word must
// equal the sell flag exactly. A flags word with extra bits set does not
// qualify as either side.
func (o *Offer) IsSell() bool {
	return o.Flags == FlagSellNFToken
}

// NFTMetadata is the marketplace-side metadata of a minted NFT.
type NFTMetadata struct {
	AnimationURL string   `json:"animation_url,omitempty"`
	Category     Category `json:"category"`
	ContentType  string   `json:"content_type"`
	Description  string   `json:"description"`
	ExternalURL  string   `json:"external_url"`
	ImageURL     string   `json:"image_url"`
	IsExplicit   bool     `json:"is_explicit"`
	MD5Hash      string   `json:"md5hash"`
	Name         string   `json:"name"`
}

// NFTData is the remote service's record of a minted NFT.
type NFTData struct {
	ID           string      `json:"id"`
	Standard     string      `json:"standard"`
	CollectionID string      `json:"collection_id"`
	Minter       string      `json:"minter"`
	Owner        string      `json:"owner"`
	IPFSCid      string      `json:"ipfs_cid"`
	MD5Hash      string      `json:"md5_hash"`
	MintedTxID   string      `json:"minted_txid"`
	Metadata     NFTMetadata `json:"metadata"`
}

// NFTLedgerInfo is the ledger-query (nft_info) view of an NFT.
type NFTLedgerInfo struct {
	NFTokenID    string `json:"nft_id"`
	LedgerIndex  uint32 `json:"ledger_index"`
	Owner        string `json:"owner"`
	IsBurned     bool   `json:"is_burned"`
	Flags        uint32 `json:"flags"`
	TransferFee  uint16 `json:"transfer_fee"`
	Issuer       string `json:"issuer"`
	NFTokenTaxon uint32 `json:"nft_taxon"`
	URI          string `json:"uri,omitempty"`
}

// FullNFTData pairs the marketplace record with the ledger view. Either
// side may be nil when the corresponding source has no record.
type FullNFTData struct {
	MarketplaceInfo *NFTData       `json:"sologenic_info"`
	LedgerInfo      *NFTLedgerInfo `json:"xrpl_info"`
}

// NFTAction is one marketplace history entry for an NFT.
type NFTAction struct {
	ID        int64  `json:"id"`
	NFTokenID string `json:"nft_id"`
	Type      string `json:"type"`
	Account   string `json:"account"`
	TxHash    string `json:"tx_hash,omitempty"`
	At        string `json:"at"`
}
