package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/vorpalengineering/cryptocoffee-go/types"
)

func checkCommand() {
	// Define flags for check command
	checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
	var endpoint string
	var amount float64
	checkFlags.StringVar(&endpoint, "endpoint", "", "Donation endpoint URL (required)")
	checkFlags.StringVar(&endpoint, "e", "", "Donation endpoint URL (required)")
	checkFlags.Float64Var(&amount, "amount", 1, "Donation amount in USD")
	checkFlags.Float64Var(&amount, "a", 1, "Donation amount in USD")

	// Parse flags
	checkFlags.Parse(os.Args[2:])

	if endpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: --endpoint or -e flag is required")
		fmt.Fprintln(os.Stderr, "\nUsage:")
		fmt.Fprintln(os.Stderr, "  coffeecli check --endpoint <url> [--amount <usd>]")
		checkFlags.PrintDefaults()
		os.Exit(1)
	}

	body, _ := json.Marshal(types.DonationRequest{Amount: amount})
	resp, err := http.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Printf("Endpoint: %s\n", endpoint)
	fmt.Printf("Status: %d %s\n\n", resp.StatusCode, resp.Status)

	if resp.StatusCode != http.StatusPaymentRequired {
		fmt.Printf("Endpoint returned status %d (expected 402 challenge)\n", resp.StatusCode)
		return
	}

	var challenge types.PaymentRequiredResponse
	if err := json.NewDecoder(resp.Body).Decode(&challenge); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing challenge: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Payment Required (402)")
	fmt.Println("\nAccepts:")
	for i, req := range challenge.Accepts {
		if i > 0 {
			fmt.Println("\n---")
		}
		printRequirement(&req)
	}
}

func printRequirement(req *types.PaymentRequirements) {
	// Pretty-print the payment requirement as JSON
	jsonBytes, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting requirement: %v\n", err)
		return
	}
	fmt.Println(string(jsonBytes))
}
