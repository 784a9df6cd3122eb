package domain

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestAmountDrops(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"1", "1000000"},
		{"0.001", "1000"},
		{"0.000001", "1"},
		{"12.5", "12500000"},
	}
	for _, tc := range cases {
		drops, err := XRPAmount(tc.value).Drops()
		if err != nil {
			t.Fatalf("Drops(%s): %v", tc.value, err)
		}
		if drops != tc.want {
			t.Errorf("Drops(%s) = %s, want %s", tc.value, drops, tc.want)
		}
	}
}

func TestAmountDropsIssuedCurrency(t *testing.T) {
	a := Amount{Currency: "USD", Issuer: "rrrrrrrrrrrrrrrrrrrrBZbvji", Value: "5"}
	if _, err := a.Drops(); err == nil {
		t.Fatal("Drops succeeded on an issued currency")
	}
}

func TestAmountMarshalNative(t *testing.T) {
	data, err := json.Marshal(XRPAmount("1.5"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"1500000"` {
		t.Errorf("Marshal native = %s, want \"1500000\"", data)
	}
}

func TestAmountMarshalIssued(t *testing.T) {
	a := Amount{Currency: "USD", Issuer: "rrrrrrrrrrrrrrrrrrrrBZbvji", Value: "5"}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["currency"] != "USD" || decoded["value"] != "5" {
		t.Errorf("Marshal issued = %s", data)
	}
}

func TestAmountUnmarshalDrops(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`"1500000"`), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !a.IsNative() {
		t.Fatalf("drops string decoded as %s", a.Currency)
	}
	if a.Value != "1.5" {
		t.Errorf("Value = %s, want 1.5", a.Value)
	}
}

func TestAmountUnmarshalObject(t *testing.T) {
	var a Amount
	raw := `{"currency":"USD","issuer":"rrrrrrrrrrrrrrrrrrrrBZbvji","value":"7.25"}`
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if a.Currency != "USD" || a.Value != "7.25" {
		t.Errorf("decoded %+v", a)
	}
}

func TestAmountUnmarshalBadDrops(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`"not-a-number"`), &a); err == nil {
		t.Fatal("Unmarshal accepted a non-numeric drops string")
	}
}

func TestNewMemoHexEncodes(t *testing.T) {
	memo := NewMemo("sign_in")
	if memo.Memo.MemoData != "7369676E5F696E" {
		t.Errorf("MemoData = %s, want 7369676E5F696E", memo.Memo.MemoData)
	}
}
