package mint

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrplnft/internal/collection"
	"xrplnft/internal/domain"
	"xrplnft/internal/rest"
	"xrplnft/internal/xrpl"
)

const testIssuer = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"

// fakeMintService is an in-memory stand-in for the REST service: slot
// accounting, upload/ship/prepare/mint endpoints and burn registration.
type fakeMintService struct {
	mu         sync.Mutex
	freeSlots  int
	usedSlots  int
	uploads    int
	ships      int
	mints      int
	burns      int
	burnAdds   int // slots credited per registered burn
	failUpload int // upload call number to fail, 0 for none
	sealed     bool
}

func (s *fakeMintService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/nft-minter/collection/assemble", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		consumed := "minted"
		slots := make([]map[string]any, 0, s.freeSlots+s.usedSlots)
		for i := 0; i < s.usedSlots; i++ {
			slots = append(slots, map[string]any{"uid": "used", "currency": consumed})
		}
		for i := 0; i < s.freeSlots; i++ {
			slots = append(slots, map[string]any{"uid": "slot-free", "currency": nil})
		}
		writeJSON(w, http.StatusOK, map[string]any{"response": map[string]any{
			"uid": "c1", "issuer": testIssuer, "nfts": slots,
		}})
	})
	mux.HandleFunc("/nft-minter/nft/upload", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.uploads++
		fail := s.failUpload != 0 && s.uploads == s.failUpload
		s.mu.Unlock()
		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"response": map[string]any{"error": map[string]any{"message": "upload rejected"}},
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	mux.HandleFunc("/nft-minter/collection/ship", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.ships++
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"response": map[string]any{"shipped": true}})
	})
	mux.HandleFunc("/nft-minter/nft/prepareMint", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"response": map[string]any{
			"tx": map[string]any{
				"TransactionType": "NFTokenMint",
				"Account":         testIssuer,
				"NFTokenTaxon":    7,
			},
		}})
	})
	mux.HandleFunc("/nft-minter/nft/mint", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.mints++
		s.freeSlots--
		s.usedSlots++
		n := s.mints
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"response": map[string]any{
			"hash": "MINTHASH" + string(rune('0'+n)),
		}})
	})
	mux.HandleFunc("/nft-minter/solo/burn_config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"burn_amount":   "3",
			"burn_currency": "534F4C4F00000000000000000000000000000000",
			"burn_issuer":   "rsoLo2S1kiGeCcn6hCUXVrCpGMWLrRrLZz",
		})
	})
	mux.HandleFunc("/nft-minter/solo/burn", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.burns++
		s.freeSlots += s.burnAdds
		burns := s.burns
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"address": testIssuer, "hash": "BURNHASH", "burns_count": burns,
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// fakeLedger serves autofill inputs and canned mint metadata.
type fakeLedger struct {
	xrpl.Client
	mu            sync.Mutex
	mintedTokens  uint32
	txMeta        func(minted uint32) *xrpl.TxMeta
	submitAndWait int
}

func (l *fakeLedger) AccountInfo(context.Context, string) (*xrpl.AccountInfoResult, error) {
	return &xrpl.AccountInfoResult{Sequence: 42, CurrentLedgerIndex: 7000}, nil
}

func (l *fakeLedger) Tx(_ context.Context, hash string) (*xrpl.TxResult, error) {
	l.mu.Lock()
	minted := l.mintedTokens
	l.mintedTokens++
	l.mu.Unlock()
	return &xrpl.TxResult{
		Hash:         hash,
		Account:      testIssuer,
		Flags:        8,
		NFTokenTaxon: 7,
		Validated:    true,
		Meta:         l.txMeta(minted),
	}, nil
}

func (l *fakeLedger) SubmitAndWait(context.Context, string) (*xrpl.TxResult, error) {
	l.mu.Lock()
	l.submitAndWait++
	l.mu.Unlock()
	return &xrpl.TxResult{Hash: "BURNHASH", Validated: true}, nil
}

// accountRootMeta builds the metadata shape of a real mint: one modified
// AccountRoot for the minting account with the pre-mint counter.
func accountRootMeta(account string, prevMinted uint32) *xrpl.TxMeta {
	final, _ := json.Marshal(map[string]any{"Account": account, "MintedNFTokens": prevMinted + 1})
	var prev json.RawMessage
	if prevMinted > 0 {
		prev, _ = json.Marshal(map[string]any{"MintedNFTokens": prevMinted})
	} else {
		prev = json.RawMessage(`{}`)
	}
	return &xrpl.TxMeta{
		TransactionResult: "tesSUCCESS",
		AffectedNodes: []xrpl.AffectedNode{
			{ModifiedNode: &xrpl.ModifiedNode{
				LedgerEntryType: "AccountRoot",
				FinalFields:     final,
				PreviousFields:  prev,
			}},
		},
	}
}

type fakeWallet struct{ signs int }

func (w *fakeWallet) Address() string { return testIssuer }

func (w *fakeWallet) Sign(tx *domain.Transaction) (string, error) {
	w.signs++
	if tx.Account == "" {
		tx.Account = testIssuer
	}
	return "SIGNEDBLOB", nil
}

type fixture struct {
	orch    *Orchestrator
	service *fakeMintService
	ledger  *fakeLedger
	wallet  *fakeWallet
	cleanup func()
}

func newFixture(t *testing.T, service *fakeMintService) *fixture {
	t.Helper()
	server := httptest.NewServer(service.handler())

	ledger := &fakeLedger{
		txMeta: func(minted uint32) *xrpl.TxMeta { return accountRootMeta(testIssuer, minted) },
	}
	w := &fakeWallet{}
	restClient := rest.NewClient(server.URL, staticHeaders{})
	tracker := collection.NewTracker(restClient)
	require.NoError(t, tracker.SetAddress(context.Background(), testIssuer))

	orch, err := New(Options{
		Ledger:  ledger,
		Rest:    restClient,
		Tracker: tracker,
		Wallet:  w,
	})
	require.NoError(t, err)

	return &fixture{orch: orch, service: service, ledger: ledger, wallet: w, cleanup: server.Close}
}

type staticHeaders struct{}

func (staticHeaders) Headers(context.Context) (map[string]string, error) {
	return map[string]string{"authorization": "BLOB", "address": testIssuer}, nil
}

func payload() *domain.NFTPayload {
	return &domain.NFTPayload{
		File:      []byte{0xFF, 0xD8, 0xFF, 0x00},
		Thumbnail: []byte{0xFF, 0xD8, 0xFF, 0x00},
		Name:      "piece",
		Category:  domain.CategoryArt,
	}
}

func TestMint_HappyPath(t *testing.T) {
	f := newFixture(t, &fakeMintService{freeSlots: 2})
	defer f.cleanup()

	result, err := f.orch.Mint(context.Background(), payload(), MintOptions{})
	require.NoError(t, err)

	assert.Equal(t, "MINTHASH1", result.MintTxHash)
	assert.Len(t, result.NFTokenID, 64)
	// flags and royalty fields from the confirmed transaction
	assert.True(t, strings.HasPrefix(result.NFTokenID, "0008"))
	// first mint: the pre-mint counter defaults to zero
	assert.True(t, strings.HasSuffix(result.NFTokenID, "00000000"))

	assert.Equal(t, 1, f.service.uploads)
	assert.Equal(t, 1, f.service.ships)
	assert.Equal(t, 1, f.service.mints)
	assert.Equal(t, 1, f.wallet.signs)
	assert.Equal(t, 0, f.service.burns)
}

func TestMint_ValidatesPayload(t *testing.T) {
	f := newFixture(t, &fakeMintService{freeSlots: 1})
	defer f.cleanup()

	cases := []struct {
		name    string
		mutate  func(*domain.NFTPayload)
		kind    domain.ErrorKind
	}{
		{"no file", func(p *domain.NFTPayload) { p.File = nil }, domain.KindPropertyMissing},
		{"no thumbnail", func(p *domain.NFTPayload) { p.Thumbnail = nil }, domain.KindPropertyMissing},
		{"no name", func(p *domain.NFTPayload) { p.Name = "" }, domain.KindPropertyMissing},
		{"bad category", func(p *domain.NFTPayload) { p.Category = "stickers" }, domain.KindInvalidCategory},
		{"royalty too high", func(p *domain.NFTPayload) { p.TransferFee = 50001 }, domain.KindInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := payload()
			tc.mutate(p)
			_, err := f.orch.Mint(context.Background(), p, MintOptions{})
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
		})
	}
	assert.Equal(t, 0, f.service.uploads)
}

func TestMint_SlotExhaustionWithoutCompensation(t *testing.T) {
	f := newFixture(t, &fakeMintService{freeSlots: 0, usedSlots: 2})
	defer f.cleanup()

	_, err := f.orch.Mint(context.Background(), payload(), MintOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNftSlotsNotAvailable))
	assert.Equal(t, 0, f.service.burns)
	assert.Equal(t, 0, f.service.uploads)
}

func TestMint_CompensatesOnceAndRetries(t *testing.T) {
	f := newFixture(t, &fakeMintService{freeSlots: 0, usedSlots: 2, burnAdds: 1})
	defer f.cleanup()

	result, err := f.orch.Mint(context.Background(), payload(), MintOptions{AutoCompensate: true})
	require.NoError(t, err)
	assert.Equal(t, "MINTHASH1", result.MintTxHash)

	assert.Equal(t, 1, f.service.burns)
	assert.Equal(t, 1, f.ledger.submitAndWait)
	// burn payment plus mint transaction
	assert.Equal(t, 2, f.wallet.signs)
}

func TestMint_CompensationDoesNotLoop(t *testing.T) {
	// A burn that credits no slots leaves the retry exhausted too; the
	// pipeline must not compensate a second time.
	f := newFixture(t, &fakeMintService{freeSlots: 0, usedSlots: 2, burnAdds: 0})
	defer f.cleanup()

	_, err := f.orch.Mint(context.Background(), payload(), MintOptions{AutoCompensate: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNftSlotsNotAvailable))
	assert.Equal(t, 1, f.service.burns)
}

func TestMint_MalformedMetadata(t *testing.T) {
	f := newFixture(t, &fakeMintService{freeSlots: 1})
	defer f.cleanup()

	// Metadata without the minting account's AccountRoot node.
	f.ledger.txMeta = func(uint32) *xrpl.TxMeta {
		return accountRootMeta("rrrrrrrrrrrrrrrrrrrrBZbvji", 0)
	}

	_, err := f.orch.Mint(context.Background(), payload(), MintOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedLedgerResponse))
}

func TestMintSequence(t *testing.T) {
	t.Run("previous counter present", func(t *testing.T) {
		txr := &xrpl.TxResult{Account: testIssuer, Meta: accountRootMeta(testIssuer, 11)}
		seq, err := mintSequence(txr)
		require.NoError(t, err)
		assert.Equal(t, uint32(11), seq)
	})

	t.Run("previous counter absent defaults to zero", func(t *testing.T) {
		txr := &xrpl.TxResult{Account: testIssuer, Meta: accountRootMeta(testIssuer, 0)}
		seq, err := mintSequence(txr)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), seq)
	})

	t.Run("delegated mint matches issuer", func(t *testing.T) {
		txr := &xrpl.TxResult{
			Account: "rrrrrrrrrrrrrrrrrrrrBZbvji",
			Issuer:  testIssuer,
			Meta:    accountRootMeta(testIssuer, 4),
		}
		seq, err := mintSequence(txr)
		require.NoError(t, err)
		assert.Equal(t, uint32(4), seq)
	})

	t.Run("ambiguous nodes rejected", func(t *testing.T) {
		meta := accountRootMeta(testIssuer, 4)
		meta.AffectedNodes = append(meta.AffectedNodes, meta.AffectedNodes[0])
		txr := &xrpl.TxResult{Account: testIssuer, Meta: meta}
		_, err := mintSequence(txr)
		assert.True(t, errors.Is(err, domain.ErrMalformedLedgerResponse))
	})
}

func TestMintMultipleCopies_PartialResult(t *testing.T) {
	f := newFixture(t, &fakeMintService{freeSlots: 2})
	defer f.cleanup()

	result, err := f.orch.MintMultipleCopies(context.Background(), payload(), BatchOptions{Copies: 4})
	require.NoError(t, err)

	assert.Equal(t, 2, result.CopiesMinted)
	require.Len(t, result.NFTs, 2)
	assert.Equal(t, "MINTHASH1", result.NFTs[0].MintTxHash)
	assert.Equal(t, "MINTHASH2", result.NFTs[1].MintTxHash)

	// The stopping error keeps its kind; copy four was never attempted.
	require.Error(t, result.Err)
	assert.True(t, errors.Is(result.Err, domain.ErrNftSlotsNotAvailable))
	assert.Equal(t, 2, f.service.mints)
}

func TestMintMultipleCopies_StopsOnRemoteError(t *testing.T) {
	f := newFixture(t, &fakeMintService{freeSlots: 3, failUpload: 2})
	defer f.cleanup()

	result, err := f.orch.MintMultipleCopies(context.Background(), payload(), BatchOptions{Copies: 3})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CopiesMinted)
	require.Len(t, result.NFTs, 1)

	// Copy two fails with a remote error, not slot exhaustion; copy three
	// is never attempted.
	require.Error(t, result.Err)
	assert.Equal(t, domain.KindRemoteError, domain.KindOf(result.Err))
	assert.False(t, errors.Is(result.Err, domain.ErrNftSlotsNotAvailable))
	assert.Equal(t, 2, f.service.uploads)
	assert.Equal(t, 1, f.service.mints)
}

func TestMintMultipleCopies_AllSucceed(t *testing.T) {
	f := newFixture(t, &fakeMintService{freeSlots: 3})
	defer f.cleanup()

	result, err := f.orch.MintMultipleCopies(context.Background(), payload(), BatchOptions{Copies: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, result.CopiesMinted)
	assert.NoError(t, result.Err)
}

func TestGenerateSlots(t *testing.T) {
	f := newFixture(t, &fakeMintService{freeSlots: 0, usedSlots: 1, burnAdds: 2})
	defer f.cleanup()

	result, err := f.orch.GenerateSlots(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "BURNHASH", result.Hash)
	assert.Equal(t, 1, f.ledger.submitAndWait)

	// The tracker picked up the credited slots.
	free, err := f.orch.FreeSlots()
	require.NoError(t, err)
	assert.Equal(t, 2, free)
}

func TestGenerateSlots_RejectsNonPositive(t *testing.T) {
	f := newFixture(t, &fakeMintService{})
	defer f.cleanup()

	_, err := f.orch.GenerateSlots(context.Background(), 0)
	assert.Equal(t, domain.KindInvalidAmount, domain.KindOf(err))
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Equal(t, domain.KindPropertyMissing, domain.KindOf(err))
}
