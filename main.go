// Package main provides a pointer to the real entry point.
// MIPSLite is a cycle-accurate simulator for a simplified 32-bit RISC pipeline.
//
// For the full CLI, use: go run ./cmd/mipslite
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("mipslite - cycle-accurate MIPS Lite pipeline simulator")
	fmt.Println("")
	fmt.Println("Usage: mipslite -f <image> -m <0|1|2>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -f filename   Memory image to load (required)")
	fmt.Println("  -m mode       0: non-pipelined, 1: pipelined, 2: pipelined+forwarding (required)")
	fmt.Println("  -v            Verbose per-cycle pipeline trace")
	fmt.Println("  -h            Print usage")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/mipslite' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/mipslite' instead.")
	}
}
