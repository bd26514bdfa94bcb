package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/vorpalengineering/cryptocoffee-go/types"
	"github.com/vorpalengineering/cryptocoffee-go/wallet"
	"github.com/vorpalengineering/cryptocoffee-go/widget"
)

func donateCommand() {
	// Define flags for donate command
	donateFlags := flag.NewFlagSet("donate", flag.ExitOnError)
	var endpoint, message, network, payTo string
	var amount float64
	donateFlags.StringVar(&endpoint, "endpoint", "", "Donation endpoint URL (required)")
	donateFlags.StringVar(&endpoint, "e", "", "Donation endpoint URL (required)")
	donateFlags.Float64Var(&amount, "amount", 0, "Donation amount in USD (required)")
	donateFlags.Float64Var(&amount, "a", 0, "Donation amount in USD (required)")
	donateFlags.StringVar(&message, "message", "", "Optional donor message")
	donateFlags.StringVar(&message, "m", "", "Optional donor message")
	donateFlags.StringVar(&network, "network", "base-sepolia", "Network (base-sepolia or base)")
	donateFlags.StringVar(&payTo, "payto", "", "Expected payout address shown in widget config")

	// Parse flags
	donateFlags.Parse(os.Args[2:])

	if endpoint == "" || amount <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --endpoint and a positive --amount are required")
		fmt.Fprintln(os.Stderr, "\nUsage:")
		fmt.Fprintln(os.Stderr, "  coffeecli donate -e <url> -a <usd> [-m <message>] [--network <name>]")
		donateFlags.PrintDefaults()
		os.Exit(1)
	}

	// Private key comes from the environment, never a flag
	godotenv.Load()
	privateKey := os.Getenv("COFFEE_PRIVATE_KEY")
	if privateKey == "" {
		fmt.Fprintln(os.Stderr, "Error: COFFEE_PRIVATE_KEY environment variable required")
		os.Exit(1)
	}

	netCfg, err := types.GetNetwork(network)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	signer, err := wallet.NewKeySigner(privateKey, netCfg.ChainID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if payTo == "" {
		payTo = signer.Address()
	}

	controller, err := widget.NewController(widget.Config{
		WalletAddress: payTo,
		APIEndpoint:   endpoint,
		Network:       network,
	}, signer, widget.WithEventCallback(printEvent))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := controller.SelectPreset(amount); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if message != "" {
		if err := controller.SetMessage(message); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := controller.Submit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Donation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Donated $%v from %s\n", amount, signer.Address())
}

func printEvent(event widget.Event) {
	switch event.Type {
	case widget.EventPhaseChange:
		fmt.Fprintf(os.Stderr, "[%s] %s\n", event.Timestamp.Format("15:04:05"), event.Phase)
	case widget.EventError:
		fmt.Fprintf(os.Stderr, "[%s] error: %s\n", event.Timestamp.Format("15:04:05"), event.Message)
	case widget.EventSuccess:
		fmt.Fprintf(os.Stderr, "[%s] %s ($%v)\n", event.Timestamp.Format("15:04:05"), event.Message, event.Amount)
	}
}
