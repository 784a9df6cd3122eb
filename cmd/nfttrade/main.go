// Package main provides the trade CLI: listing, bidding, accepting and
// cancelling NFT offers, plus NFT lookups.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"xrplnft/config"
	"xrplnft/internal/auth"
	"xrplnft/internal/domain"
	"xrplnft/internal/log"
	"xrplnft/internal/rest"
	"xrplnft/internal/trade"
	"xrplnft/internal/wallet"
	"xrplnft/internal/xrpl"
)

func main() {
	network := flag.String("network", "testnet", "Target network: mainnet, testnet or devnet")
	nodeURL := flag.String("node-url", "wss://s.altnet.rippletest.net:51233", "Ledger WebSocket endpoint")
	seed := flag.String("seed", "", "Family seed of the signing wallet")
	action := flag.String("action", "", "One of: sell, bid, accept, broker, cancel, offers, nft, account-nfts")
	nftID := flag.String("nft-id", "", "NFToken ID")
	owner := flag.String("owner", "", "Current NFT owner (bids)")
	value := flag.String("value", "", "Offer value")
	currency := flag.String("currency", "xrp", "Offer currency")
	issuer := flag.String("issuer", "", "Offer currency issuer")
	destination := flag.String("destination", "", "Sell offer destination")
	offerIndex := flag.String("offer-index", "", "Offer index (accept) or comma-separated list (cancel)")
	buySide := flag.Bool("buy", false, "Treat -offer-index as a buy offer (accept)")
	sellIndex := flag.String("sell-index", "", "Sell offer index (broker)")
	buyIndex := flag.String("buy-index", "", "Buy offer index (broker)")
	maxFee := flag.Bool("max-fee", false, "Charge the maximum broker fee (broker)")
	account := flag.String("account", "", "Account for account-nfts")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	log.Init(*logLevel, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg := config.Config{Network: config.Network(*network), NodeURL: *nodeURL}
	if err := cfg.Validate(); err != nil {
		fatal("config: %v", err)
	}
	if *seed == "" {
		fatal("-seed is required")
	}

	w, err := wallet.FromSeed(*seed)
	if err != nil {
		fatal("wallet: %v", err)
	}
	authProvider, err := auth.NewProvider(w)
	if err != nil {
		fatal("auth: %v", err)
	}
	restClient := rest.NewClient(cfg.RestURL, authProvider)

	ledger := xrpl.NewWSClient(cfg.NodeURL, nil)
	if err := ledger.Connect(ctx); err != nil {
		fatal("ledger connect: %v", err)
	}
	defer ledger.Close()

	history := xrpl.NewWSClient(cfg.ClioURL, nil)
	defer history.Close()

	orch, err := trade.New(trade.Options{
		Ledger:  ledger,
		History: history,
		Rest:    restClient,
		Wallet:  w,
	})
	if err != nil {
		fatal("orchestrator: %v", err)
	}

	amount := domain.Amount{Currency: *currency, Issuer: *issuer, Value: *value}

	switch *action {
	case "sell":
		hash, err := orch.SetForSale(ctx, *nftID, amount, trade.SellOptions{Destination: *destination})
		report(hash, err)
	case "bid":
		hash, err := orch.PlaceBid(ctx, *nftID, *owner, amount, trade.BidOptions{})
		report(hash, err)
	case "accept":
		hash, err := orch.AcceptOffer(ctx, *offerIndex, trade.AcceptOfferOptions{IsBuy: *buySide})
		report(hash, err)
	case "broker":
		book, err := orch.GetOffers(ctx, *nftID)
		if err != nil {
			fatal("offers: %v", err)
		}
		sell := findOffer(book.Sell, *sellIndex)
		if sell == nil {
			fatal("sell offer %s not found on %s", *sellIndex, *nftID)
		}
		buy := findOffer(book.Buy, *buyIndex)
		if buy == nil {
			fatal("buy offer %s not found on %s", *buyIndex, *nftID)
		}
		var fee *domain.Amount
		if *maxFee {
			f, err := orch.MaxFee(sell, buy)
			if err != nil {
				fatal("broker fee: %v", err)
			}
			fee = &f
		}
		hash, err := orch.BrokerOffers(ctx, sell, buy, fee)
		report(hash, err)
	case "cancel":
		hash, err := orch.CancelOffers(ctx, strings.Split(*offerIndex, ","))
		report(hash, err)
	case "offers":
		book, err := orch.GetOffers(ctx, *nftID)
		if err != nil {
			fatal("offers: %v", err)
		}
		printBook(book)
	case "nft":
		data, err := orch.GetNFT(ctx, *nftID)
		if err != nil {
			fatal("nft: %v", err)
		}
		printNFT(data)
	case "account-nfts":
		nfts, err := orch.GetAccountNFTs(ctx, *account)
		if err != nil {
			fatal("account nfts: %v", err)
		}
		for _, nft := range nfts {
			fmt.Printf("%s  taxon=%d serial=%d\n", nft.NFTokenID, nft.NFTokenTaxon, nft.Serial)
		}
	default:
		fatal("unknown -action %q", *action)
	}
}

func findOffer(offers []domain.Offer, index string) *domain.Offer {
	for i := range offers {
		if offers[i].NFTOfferIndex == index {
			return &offers[i]
		}
	}
	return nil
}

func report(hash string, err error) {
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Submitted in tx %s\n", hash)
}

func printBook(book *trade.OfferBook) {
	fmt.Printf("Sell offers (%d):\n", len(book.Sell))
	for _, o := range book.Sell {
		fmt.Printf("  %s  %s %s  owner=%s\n", o.NFTOfferIndex, o.Amount.Value, o.Amount.Currency, o.Owner)
	}
	fmt.Printf("Buy offers (%d):\n", len(book.Buy))
	for _, o := range book.Buy {
		fmt.Printf("  %s  %s %s  owner=%s\n", o.NFTOfferIndex, o.Amount.Value, o.Amount.Currency, o.Owner)
	}
}

func printNFT(data *domain.FullNFTData) {
	if data.MarketplaceInfo != nil {
		fmt.Printf("Marketplace: %s owner=%s minted=%s\n",
			data.MarketplaceInfo.Metadata.Name, data.MarketplaceInfo.Owner, data.MarketplaceInfo.MintedTxID)
	}
	if data.LedgerInfo != nil {
		fmt.Printf("Ledger: owner=%s issuer=%s burned=%v\n",
			data.LedgerInfo.Owner, data.LedgerInfo.Issuer, data.LedgerInfo.IsBurned)
	}
	if data.MarketplaceInfo == nil && data.LedgerInfo == nil {
		fmt.Println("NFT unknown to both sources")
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
