// Package config carries the SDK's externally supplied configuration:
// network selection and ledger node endpoints.
package config

import (
	"fmt"

	"xrplnft/internal/domain"
)

// Network selects the ledger network the SDK targets.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Devnet  Network = "devnet"
)

// IsValid checks network membership.
func (n Network) IsValid() bool {
	return n == Mainnet || n == Testnet || n == Devnet
}

// Per-network REST service base URLs.
var restBaseURLs = map[Network]string{
	Mainnet: "https://api.sologenic.org/api/v1",
	Testnet: "https://api-testnet.test.sologenic.org/api/v1",
	Devnet:  "https://api-devnet.test.sologenic.org/api/v1",
}

// Per-network secondary ledger-query (history) endpoints.
var clioEndpoints = map[Network]string{
	Mainnet: "wss://s2-clio.ripple.com:51233/",
	Testnet: "wss://clio.altnet.rippletest.net:51233/",
	Devnet:  "wss://clio.devnet.rippletest.net:51233/",
}

// Config is the full configuration surface. Network and NodeURL are
// required; the remaining endpoints default per network.
type Config struct {
	// Network selects the REST and ledger-query base URLs.
	Network Network
	// NodeURL is the primary ledger WebSocket endpoint.
	NodeURL string
	// ClioURL overrides the network's ledger-query endpoint.
	ClioURL string
	// RestURL overrides the network's REST base URL.
	RestURL string
}

// Validate fills defaults and rejects an incomplete configuration.
func (c *Config) Validate() error {
	if c.Network == "" {
		return domain.PropertyMissing("network")
	}
	if !c.Network.IsValid() {
		return fmt.Errorf("unknown network %q", c.Network)
	}
	if c.NodeURL == "" {
		return domain.PropertyMissing("node URL")
	}
	if c.ClioURL == "" {
		c.ClioURL = clioEndpoints[c.Network]
	}
	if c.RestURL == "" {
		c.RestURL = restBaseURLs[c.Network]
	}
	return nil
}
