package wallet

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"xrplnft/internal/domain"
)

// Reference vectors from the ledger's published key-derivation fixtures.
const (
	secpSeed    = "sp5fghtJtpUorTwvof1NpDXAzNwf5"
	secpPubKey  = "030D58EB48B4420B1F7B9DF55087E0E29FEF0E8468F9A6825B01CA2C361042D435"
	secpAddress = "rU6K7V3Po4snVhBBaU29sesqs2qTQJWDw1"

	edSeed    = "sEdSKaCy2JT7JaM7v95H9SxkhP9wS2r"
	edPubKey  = "ED01FA53FA5A7E77798F882ECE20B1ABC00BB358A9E55A202D0D0676BD0CE37A63"
	edAddress = "rLUEXYuLiQptky37CqLcm9USQpPiz5rkpD"
)

func TestFromSeedSecp256k1(t *testing.T) {
	w, err := FromSeed(secpSeed)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	if got := strings.ToUpper(hex.EncodeToString(w.PublicKey())); got != secpPubKey {
		t.Errorf("public key = %s, want %s", got, secpPubKey)
	}
	if w.Address() != secpAddress {
		t.Errorf("address = %s, want %s", w.Address(), secpAddress)
	}
}

func TestFromSeedEd25519(t *testing.T) {
	w, err := FromSeed(edSeed)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	if got := strings.ToUpper(hex.EncodeToString(w.PublicKey())); got != edPubKey {
		t.Errorf("public key = %s, want %s", got, edPubKey)
	}
	if w.Address() != edAddress {
		t.Errorf("address = %s, want %s", w.Address(), edAddress)
	}
}

func TestFromSeedRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"sp5fghtJtpUorTwvof1NpDXAzNwf6", // checksum broken
		"rU6K7V3Po4snVhBBaU29sesqs2qTQJWDw1",
		"not a seed at all",
	}
	for _, seed := range cases {
		if _, err := FromSeed(seed); err == nil {
			t.Errorf("FromSeed(%q) succeeded, want error", seed)
		}
	}
}

func TestSeedRoundTrip(t *testing.T) {
	entropy := bytes.Repeat([]byte{0xAB}, seedEntropyLength)
	for _, family := range []keyFamily{Secp256k1Family, Ed25519Family} {
		seed, err := EncodeSeed(entropy, family)
		if err != nil {
			t.Fatalf("EncodeSeed: %v", err)
		}
		decoded, gotFamily, err := decodeSeed(seed)
		if err != nil {
			t.Fatalf("decodeSeed(%s): %v", seed, err)
		}
		if gotFamily != family {
			t.Errorf("family = %v, want %v", gotFamily, family)
		}
		if !bytes.Equal(decoded, entropy) {
			t.Errorf("entropy mismatch: %X", decoded)
		}
	}
}

func TestEncodeSeedEd25519Prefix(t *testing.T) {
	seed, err := EncodeSeed(make([]byte, seedEntropyLength), Ed25519Family)
	if err != nil {
		t.Fatalf("EncodeSeed: %v", err)
	}
	if !strings.HasPrefix(seed, "sEd") {
		t.Errorf("ed25519 seed = %s, want sEd prefix", seed)
	}
}

func TestSignFillsAccountAndEncodesEnvelope(t *testing.T) {
	w, err := FromSeed(edSeed)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	tx := &domain.Transaction{TransactionType: domain.TxAccountSet}
	blob, err := w.Sign(tx)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	raw, err := hex.DecodeString(blob)
	if err != nil {
		t.Fatalf("blob is not hex: %v", err)
	}
	var envelope struct {
		Account       string `json:"Account"`
		SigningPubKey string `json:"SigningPubKey"`
		TxnSignature  string `json:"TxnSignature"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("blob is not a JSON envelope: %v", err)
	}
	if envelope.Account != edAddress {
		t.Errorf("Account = %s, want %s", envelope.Account, edAddress)
	}
	if envelope.SigningPubKey != edPubKey {
		t.Errorf("SigningPubKey = %s, want %s", envelope.SigningPubKey, edPubKey)
	}
	if envelope.TxnSignature == "" {
		t.Error("empty TxnSignature")
	}
}

func TestSignRejectsForeignAccount(t *testing.T) {
	w, err := FromSeed(edSeed)
	if err != nil {
		t.Fatalf("FromSeed: %v", err)
	}
	tx := &domain.Transaction{TransactionType: domain.TxAccountSet, Account: secpAddress}
	if _, err := w.Sign(tx); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("Sign = %v, want ErrInvalidAddress", err)
	}
}
