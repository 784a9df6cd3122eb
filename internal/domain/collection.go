package domain

// NFTSlot is one pre-purchased mint capacity unit. Currency == nil marks
// the slot as unused; any value marks it consumed.
type NFTSlot struct {
	UID      string  `json:"uid"`
	Currency *string `json:"currency"`
}

// IsFree reports whether the slot is still available for a mint.
func (s NFTSlot) IsFree() bool { return s.Currency == nil }

// Collection is the client view of one minting collection. Server-internal
// bookkeeping fields (activation and burn accounting) are stripped by the
// REST layer before a Collection reaches callers.
type Collection struct {
	UID         string    `json:"uid"`
	Issuer      string    `json:"issuer"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	NFTs        []NFTSlot `json:"nfts"`
	Created     string    `json:"created_at,omitempty"`
}

// FreeSlots counts the slots still available for minting.
func (c *Collection) FreeSlots() int {
	n := 0
	for _, s := range c.NFTs {
		if s.IsFree() {
			n++
		}
	}
	return n
}

// CollectionData is the caller-supplied collection update payload. Cover
// and Thumbnail are raw media bytes.
type CollectionData struct {
	Name        string `json:"name"`
	Cover       []byte `json:"-"`
	Thumbnail   []byte `json:"-"`
	Description string `json:"description,omitempty"`
	TransferFee uint16 `json:"transfer_fee,omitempty"`
}

// PublicCollection is the marketplace-side public view of a collection.
type PublicCollection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Issuer      string `json:"issuer"`
	CoverURL    string `json:"cover_url,omitempty"`
	NFTCount    int    `json:"nft_count"`
}

// BurnConfiguration is the server-defined exchange rate for converting a
// fungible-token payment into mint slots.
type BurnConfiguration struct {
	BurnAmount   string `json:"burn_amount"`
	BurnCurrency string `json:"burn_currency"`
	BurnIssuer   string `json:"burn_issuer"`
}

// BurnResult is the receipt for a registered slot-purchase burn.
type BurnResult struct {
	Address    string `json:"address"`
	Hash       string `json:"hash"`
	BurnsCount int    `json:"burns_count"`
}
