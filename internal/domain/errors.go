package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags every error the SDK surfaces so orchestrators can branch
// on the failure class instead of matching message strings.
type ErrorKind string

const (
	KindPropertyMissing         ErrorKind = "PROPERTY_MISSING"
	KindWalletNotConnected      ErrorKind = "WALLET_NOT_CONNECTED"
	KindCollectionNotSet        ErrorKind = "COLLECTION_NOT_SET"
	KindNftSlotsNotAvailable    ErrorKind = "NFT_SLOTS_NOT_AVAILABLE"
	KindCollectionAlreadySealed ErrorKind = "COLLECTION_ALREADY_SEALED"
	KindInvalidSellOffer        ErrorKind = "INVALID_SELL_OFFER"
	KindInvalidBuyOffer         ErrorKind = "INVALID_BUY_OFFER"
	KindInvalidDestination      ErrorKind = "INVALID_DESTINATION"
	KindOffersDoNotMatch        ErrorKind = "OFFERS_DO_NOT_MATCH"
	KindInvalidAmount           ErrorKind = "INVALID_AMOUNT"
	KindInvalidAddress          ErrorKind = "INVALID_ADDRESS"
	KindInvalidCategory         ErrorKind = "INVALID_CATEGORY"
	KindRemoteError             ErrorKind = "REMOTE_ERROR"
	KindMalformedLedgerResponse ErrorKind = "MALFORMED_LEDGER_RESPONSE"
	KindUnknown                 ErrorKind = "UNKNOWN"
)

// Error carries an ErrorKind alongside a human-readable message and an
// optional wrapped cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality, so errors.Is matches any Error of the same
// kind regardless of message or cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors, one per kind. Compare with errors.Is; wrap with
// fmt.Errorf("...: %w", ...) as usual.
var (
	ErrPropertyMissing = &Error{Kind: KindPropertyMissing, Message: "required property missing"}
	ErrWalletNotConnected = &Error{Kind: KindWalletNotConnected,
		Message: "wallet has not been set; call SetWallet with a funded account"}
	ErrCollectionNotSet = &Error{Kind: KindCollectionNotSet,
		Message: "collection has not been set; call SetAddress first"}
	ErrNftSlotsNotAvailable = &Error{Kind: KindNftSlotsNotAvailable,
		Message: "no NFT slots available; generate more slots with a burn payment"}
	ErrCollectionAlreadySealed = &Error{Kind: KindCollectionAlreadySealed,
		Message: "collection has been finalized and cannot be updated"}
	ErrInvalidSellOffer = &Error{Kind: KindInvalidSellOffer, Message: "not a valid sell offer"}
	ErrInvalidBuyOffer  = &Error{Kind: KindInvalidBuyOffer, Message: "not a valid buy offer"}
	ErrInvalidDestination = &Error{Kind: KindInvalidDestination,
		Message: "sell offer destination is neither the broker nor the buyer"}
	ErrOffersDoNotMatch = &Error{Kind: KindOffersDoNotMatch,
		Message: "offers do not match on currency, issuer or amount"}
	ErrInvalidAmount   = &Error{Kind: KindInvalidAmount, Message: "amount is malformed"}
	ErrInvalidAddress  = &Error{Kind: KindInvalidAddress, Message: "address is not a valid classic address"}
	ErrInvalidCategory = &Error{Kind: KindInvalidCategory, Message: "category is not one of the known set"}
	ErrMalformedLedgerResponse = &Error{Kind: KindMalformedLedgerResponse,
		Message: "expected ledger metadata node is absent or ambiguous"}
	ErrUnknown = &Error{Kind: KindUnknown, Message: "unknown error"}
)

// PropertyMissing returns a PROPERTY_MISSING error naming the absent field.
func PropertyMissing(name string) error {
	return &Error{Kind: KindPropertyMissing, Message: "required property missing: " + name}
}

// RemoteError wraps a REST-service failure.
func RemoteError(msg string, err error) error {
	return &Error{Kind: KindRemoteError, Message: msg, Err: err}
}

// KindOf extracts the ErrorKind from err, or KindUnknown for untagged errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
