package domain

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// CurrencyXRP marks the ledger's native asset in parsed amounts.
const CurrencyXRP = "xrp"

// DropsPerXRP is the number of drops in one XRP.
const DropsPerXRP = 1_000_000

// Amount is a ledger amount: either native XRP (expressed on the wire as a
// drops string) or an issued currency {currency, issuer, value}.
type Amount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer,omitempty"`
	Value    string `json:"value"`
}

// XRPAmount builds a native amount from a decimal XRP value.
func XRPAmount(value string) Amount {
	return Amount{Currency: CurrencyXRP, Value: value}
}

// IsNative reports whether the amount is in the ledger's native asset.
func (a Amount) IsNative() bool {
	return a.Currency == CurrencyXRP || a.Currency == "XRP"
}

// Decimal parses the amount value. Fails with ErrInvalidAmount on a
// non-numeric value.
func (a Amount) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(a.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, a.Value)
	}
	return d, nil
}

// Drops renders a native amount as its smallest-unit drops string.
func (a Amount) Drops() (string, error) {
	if !a.IsNative() {
		return "", fmt.Errorf("%w: drops conversion on issued currency %q", ErrInvalidAmount, a.Currency)
	}
	d, err := a.Decimal()
	if err != nil {
		return "", err
	}
	return d.Mul(decimal.NewFromInt(DropsPerXRP)).Truncate(0).String(), nil
}

// MarshalJSON renders native amounts as a drops string and issued amounts
// as the currency object, matching the ledger wire format.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.IsNative() {
		drops, err := a.Drops()
		if err != nil {
			return nil, err
		}
		return json.Marshal(drops)
	}
	type wire Amount
	return json.Marshal(wire(a))
}

// UnmarshalJSON accepts both wire forms. A bare string is a drops amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var drops string
	if err := json.Unmarshal(data, &drops); err == nil {
		v, err := strconv.ParseInt(drops, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: drops %q", ErrInvalidAmount, drops)
		}
		*a = Amount{
			Currency: CurrencyXRP,
			Value:    decimal.New(v, 0).Div(decimal.NewFromInt(DropsPerXRP)).String(),
		}
		return nil
	}
	type wire Amount
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	*a = Amount(w)
	return nil
}
