package xrpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"xrplnft/internal/domain"
	"xrplnft/internal/log"
	"xrplnft/internal/observability"
)

// WSConfig configures WebSocket client behavior.
type WSConfig struct {
	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration
	// RequestTimeout bounds a single command round trip.
	RequestTimeout time.Duration
	// WriteTimeout bounds writing one frame.
	WriteTimeout time.Duration
	// PollInterval is the delay between validation polls in SubmitAndWait.
	PollInterval time.Duration
	// MaxPollAttempts bounds validation polling. With the ledger closing
	// every few seconds this comfortably covers the LastLedgerSequence
	// window.
	MaxPollAttempts int
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		DialTimeout:     10 * time.Second,
		RequestTimeout:  30 * time.Second,
		WriteTimeout:    10 * time.Second,
		PollInterval:    1 * time.Second,
		MaxPollAttempts: 60,
	}
}

// ErrNotFound is returned when the ledger has no record for the request,
// e.g. an empty offer book or an unknown transaction.
var ErrNotFound = errors.New("ledger object not found")

// RPCError is a ledger-side command failure.
type RPCError struct {
	Code    string
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("ledger error %s: %s", e.Code, e.Message)
}

// WSClient implements Client over a WebSocket connection.
type WSClient struct {
	endpoint string
	config   WSConfig
	metrics  *observability.Metrics
	logger   zerolog.Logger

	conn      *websocket.Conn
	connMu    sync.Mutex
	connected atomic.Bool
	writeMu   sync.Mutex
	requestID atomic.Uint64

	// pending maps request ID to the channel its response is delivered on
	pending   map[uint64]chan wsResponse
	pendingMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

// WSOption tunes a WSClient beyond its WSConfig.
type WSOption func(*WSClient)

// WithMetrics records command round-trip latency per command.
func WithMetrics(m *observability.Metrics) WSOption {
	return func(c *WSClient) {
		c.metrics = m
	}
}

// NewWSClient creates a client for the given WebSocket endpoint. The
// connection is established lazily on first use or via Connect.
func NewWSClient(endpoint string, config *WSConfig, opts ...WSOption) *WSClient {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	c := &WSClient{
		endpoint: endpoint,
		config:   cfg,
		logger:   log.Ledger.With().Str("endpoint", endpoint).Logger(),
		pending:  make(map[uint64]chan wsResponse),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wsResponse struct {
	ID           uint64          `json:"id"`
	Status       string          `json:"status"`
	Type         string          `json:"type"`
	Result       json.RawMessage `json:"result"`
	ErrorCode    string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

// Connect establishes the WebSocket connection. Re-connecting an already
// connected client is a no-op, so callers may race it against reads.
func (c *WSClient) Connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.connected.Load() {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.config.DialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.endpoint, err)
	}

	c.conn = conn
	c.done = make(chan struct{})
	c.connected.Store(true)

	c.wg.Add(1)
	go c.readLoop(conn, c.done)

	c.logger.Debug().Msg("ledger connection established")
	return nil
}

// IsConnected reports whether the connection is established.
func (c *WSClient) IsConnected() bool {
	return c.connected.Load()
}

// Close tears the connection down and fails all in-flight requests.
func (c *WSClient) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if !c.connected.Load() {
		return nil
	}
	c.connected.Store(false)
	close(c.done)
	err := c.conn.Close()
	c.wg.Wait()
	c.failPending()
	return err
}

// readLoop dispatches incoming frames to their waiting requests.
func (c *WSClient) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer c.wg.Done()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
			default:
				c.logger.Warn().Err(err).Msg("ledger connection read failed")
				c.connected.Store(false)
				c.failPending()
			}
			return
		}

		var resp wsResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			c.logger.Warn().Err(err).Msg("undecodable ledger frame")
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.pendingMu.Unlock()

		if ok {
			ch <- resp
		}
	}
}

func (c *WSClient) failPending() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Request performs one command round trip and decodes the result.
func (c *WSClient) Request(ctx context.Context, command string, params map[string]any, result any) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}

	if c.metrics != nil {
		start := time.Now()
		defer func() {
			c.metrics.LedgerRequestDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
		}()
	}

	id := c.requestID.Add(1)
	frame := make(map[string]any, len(params)+2)
	for k, v := range params {
		frame[k] = v
	}
	frame["id"] = id
	frame["command"] = command

	body, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", command, err)
	}

	ch := make(chan wsResponse, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	err = c.conn.WriteMessage(websocket.TextMessage, body)
	c.writeMu.Unlock()
	if err != nil {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return fmt.Errorf("send %s request: %w", command, err)
	}

	timer := time.NewTimer(c.config.RequestTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%s request timed out", command)
	case resp, ok := <-ch:
		if !ok {
			return fmt.Errorf("%s request: connection closed", command)
		}
		if resp.Status == "error" {
			if isNotFoundCode(resp.ErrorCode) {
				return fmt.Errorf("%s: %w", command, ErrNotFound)
			}
			return &RPCError{Code: resp.ErrorCode, Message: resp.ErrorMessage}
		}
		if result != nil && resp.Result != nil {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("decode %s result: %w", command, err)
			}
		}
		return nil
	}
}

func isNotFoundCode(code string) bool {
	switch code {
	case "objectNotFound", "entryNotFound", "txnNotFound", "actNotFound":
		return true
	}
	return false
}

// AccountInfo returns the account sequence and current ledger index.
func (c *WSClient) AccountInfo(ctx context.Context, account string) (*AccountInfoResult, error) {
	var resp accountInfoResponse
	err := c.Request(ctx, "account_info", map[string]any{
		"account":      account,
		"ledger_index": "current",
	}, &resp)
	if err != nil {
		return nil, err
	}

	indexCur := resp.LedgerCurrentIndex
	if indexCur == 0 {
		indexCur = resp.LedgerIndex
	}
	return &AccountInfoResult{
		Sequence:           resp.AccountData.Sequence,
		CurrentLedgerIndex: indexCur,
	}, nil
}

// Tx fetches a transaction's finalized record with metadata.
func (c *WSClient) Tx(ctx context.Context, hash string) (*TxResult, error) {
	var result TxResult
	err := c.Request(ctx, "tx", map[string]any{"transaction": hash}, &result)
	if err != nil {
		return nil, err
	}
	if result.Hash == "" {
		result.Hash = hash
	}
	return &result, nil
}

// SubmitAndWait submits a signed blob and polls until validation. The
// transaction's own LastLedgerSequence bounds eligibility; the SDK does
// not re-submit after expiry.
func (c *WSClient) SubmitAndWait(ctx context.Context, blob string) (*TxResult, error) {
	var submitted submitResponse
	if err := c.Request(ctx, "submit", map[string]any{"tx_blob": blob}, &submitted); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if strings.HasPrefix(submitted.EngineResult, "tem") || strings.HasPrefix(submitted.EngineResult, "tef") {
		return nil, fmt.Errorf("submit rejected: %s", submitted.EngineResult)
	}
	if submitted.TxJSON.Hash == "" {
		return nil, fmt.Errorf("submit: %w", domain.ErrMalformedLedgerResponse)
	}

	hash := submitted.TxJSON.Hash
	for attempt := 0; attempt < c.config.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.config.PollInterval):
		}

		result, err := c.Tx(ctx, hash)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if result.Validated {
			return result, nil
		}
	}
	return nil, fmt.Errorf("transaction %s not validated after %d polls", hash, c.config.MaxPollAttempts)
}

// AccountNFTs pages through account_nfts until the marker is spent.
func (c *WSClient) AccountNFTs(ctx context.Context, account string) ([]domain.NFT, error) {
	var nfts []domain.NFT
	var marker json.RawMessage

	for {
		params := map[string]any{
			"account": account,
			"limit":   100,
		}
		if marker != nil {
			params["marker"] = marker
		}

		var resp accountNFTsResponse
		if err := c.Request(ctx, "account_nfts", params, &resp); err != nil {
			return nil, err
		}
		nfts = append(nfts, resp.AccountNFTs...)

		if resp.Marker == nil {
			return nfts, nil
		}
		marker = resp.Marker
	}
}

// NFTOffers fetches one side of an NFT's offer book. An absent book is an
// empty list.
func (c *WSClient) NFTOffers(ctx context.Context, nftID string, side OfferSide) ([]domain.Offer, error) {
	var resp nftOffersResponse
	err := c.Request(ctx, fmt.Sprintf("nft_%s_offers", side), map[string]any{"nft_id": nftID}, &resp)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resp.Offers, nil
}

// NFTInfo queries an NFT's ledger record. Only ledger-history (Clio)
// endpoints serve this command.
func (c *WSClient) NFTInfo(ctx context.Context, nftID string) (*domain.NFTLedgerInfo, error) {
	var info domain.NFTLedgerInfo
	if err := c.Request(ctx, "nft_info", map[string]any{"nft_id": nftID}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
