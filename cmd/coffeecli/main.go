package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Parse subcommand
	subcommand := os.Args[1]

	switch subcommand {
	case "check":
		checkCommand()
	case "donate":
		donateCommand()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "coffeecli - CLI for x402 donation endpoints")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  coffeecli <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  check     Fetch a donation endpoint's payment requirements")
	fmt.Fprintln(os.Stderr, "  donate    Run the full donation payment flow")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  coffeecli check --endpoint http://localhost:3000/donate --amount 3")
	fmt.Fprintln(os.Stderr, "  COFFEE_PRIVATE_KEY=0x... coffeecli donate -e http://localhost:3000/donate -a 3 -m \"great work\"")
}
