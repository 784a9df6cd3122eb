// Package main provides the mint CLI: mints one NFT (or several copies)
// from a payload file into the selected collection.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"xrplnft/config"
	"xrplnft/internal/auth"
	"xrplnft/internal/collection"
	"xrplnft/internal/domain"
	"xrplnft/internal/log"
	"xrplnft/internal/mint"
	"xrplnft/internal/observability"
	"xrplnft/internal/rest"
	"xrplnft/internal/wallet"
	"xrplnft/internal/xrpl"
)

func main() {
	network := flag.String("network", "testnet", "Target network: mainnet, testnet or devnet")
	nodeURL := flag.String("node-url", "wss://s.altnet.rippletest.net:51233", "Ledger WebSocket endpoint")
	seed := flag.String("seed", "", "Family seed of the signing wallet")
	issuer := flag.String("issuer", "", "Issuing address of the collection to mint into (empty creates one)")
	file := flag.String("file", "", "Path to the NFT media file")
	thumbnail := flag.String("thumbnail", "", "Path to the NFT thumbnail")
	name := flag.String("name", "", "NFT name")
	category := flag.String("category", "art", "NFT category")
	transferFee := flag.Uint("transfer-fee", 0, "Royalty in 1/100000 units, up to 50000")
	copies := flag.Int("copies", 1, "Number of identical copies to mint")
	compensate := flag.Bool("auto-compensate", false, "Buy a slot batch and retry once on slot exhaustion")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
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

	var metrics *observability.Metrics
	if *metricsAddr != "" {
		metrics = observability.NewMetrics("xrplnft", prometheus.DefaultRegisterer)
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
	}

	restClient := rest.NewClient(cfg.RestURL, authProvider, rest.WithMetrics(metrics))

	ledger := xrpl.NewWSClient(cfg.NodeURL, nil, xrpl.WithMetrics(metrics))
	if err := ledger.Connect(ctx); err != nil {
		fatal("ledger connect: %v", err)
	}
	defer ledger.Close()

	tracker := collection.NewTracker(restClient)
	orch, err := mint.New(mint.Options{
		Ledger:  ledger,
		Rest:    restClient,
		Tracker: tracker,
		Wallet:  w,
		Metrics: metrics,
	})
	if err != nil {
		fatal("orchestrator: %v", err)
	}

	if *issuer != "" {
		err = orch.SetCollectionAddress(ctx, *issuer)
	} else {
		_, err = orch.CreateCollection(ctx)
	}
	if err != nil {
		fatal("collection: %v", err)
	}

	payload, err := loadPayload(*file, *thumbnail, *name, *category, uint16(*transferFee))
	if err != nil {
		fatal("payload: %v", err)
	}

	if *copies > 1 {
		result, err := orch.MintMultipleCopies(ctx, payload, mint.BatchOptions{
			Copies:         *copies,
			AutoCompensate: *compensate,
		})
		if err != nil {
			fatal("batch mint: %v", err)
		}
		fmt.Printf("Minted %d/%d copies\n", result.CopiesMinted, *copies)
		for _, nft := range result.NFTs {
			fmt.Printf("  %s  %s\n", nft.NFTokenID, nft.MintTxHash)
		}
		if result.Err != nil {
			fatal("batch stopped: %v", result.Err)
		}
		return
	}

	result, err := orch.Mint(ctx, payload, mint.MintOptions{AutoCompensate: *compensate})
	if err != nil {
		fatal("mint: %v", err)
	}
	fmt.Printf("Minted %s in tx %s\n", result.NFTokenID, result.MintTxHash)
}

func loadPayload(file, thumbnail, name, category string, transferFee uint16) (*domain.NFTPayload, error) {
	if file == "" || thumbnail == "" {
		return nil, fmt.Errorf("-file and -thumbnail are required")
	}
	fileBytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	thumbBytes, err := os.ReadFile(thumbnail)
	if err != nil {
		return nil, err
	}
	return &domain.NFTPayload{
		File:        fileBytes,
		Thumbnail:   thumbBytes,
		Name:        name,
		Category:    domain.Category(category),
		TransferFee: transferFee,
	}, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
