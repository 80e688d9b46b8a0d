// Package main provides the entry point for mipslite, a cycle-accurate
// simulator for the MIPS Lite instruction set.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/mipslite/emu"
	"github.com/sarchlab/mipslite/loader"
	"github.com/sarchlab/mipslite/machine"
	"github.com/sarchlab/mipslite/timing/pipeline"
)

var (
	filename = flag.String("f", "", "Load memory image from filename")
	modeFlag = flag.Int("m", -1, "Set the mode (0: Non-pipelined, 1: Pipelined without forwarding, 2: Pipelined with forwarding)")
	verbose  = flag.Bool("v", false, "Print a per-cycle pipeline occupancy trace")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-f filename] [-m mode] [-v]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -f filename: Load memory image from filename\n")
	fmt.Fprintf(os.Stderr, "  -m mode: Set the mode (0: Non-pipelined, 1: Pipelined without forwarding, 2: Pipelined with forwarding)\n")
	fmt.Fprintf(os.Stderr, "  -v: Print a per-cycle pipeline occupancy trace\n")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	mode, err := parseArgs(*filename, *modeFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Use -h for help")
		os.Exit(1)
	}

	memory := &emu.Memory{}
	if err := loader.Load(*filename, memory); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading memory image: %v\n", err)
		os.Exit(1)
	}

	var opts []pipeline.Option
	if *verbose {
		opts = append(opts, pipeline.WithTrace(os.Stdout))
	}

	m := machine.NewWithMemory(mode, memory, opts...)
	if err := m.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error during simulation: %v\n", err)
		os.Exit(1)
	}

	printReport(m.Report())
}

// parseArgs validates the -f and -m flags, mirroring process_args in the
// original reference implementation: both are required, and mode must be
// one of the three defined operating modes.
func parseArgs(filename string, modeValue int) (pipeline.Mode, error) {
	if modeValue < 0 || modeValue > int(pipeline.PipelinedForwarding) {
		return 0, fmt.Errorf("mode not specified or invalid: %d, must be between 0 and 2", modeValue)
	}
	if filename == "" {
		return 0, fmt.Errorf("filename not specified, use -f to set one")
	}
	return pipeline.Mode(modeValue), nil
}

// printReport prints the final simulation report in the format the
// original reference implementation's main() produces.
func printReport(report machine.Report) {
	fmt.Println("======== Simulation complete ========")
	fmt.Printf("Total clock cycles: %d\n", report.Clock)
	fmt.Printf("Final PC: %d\n", report.FinalPC)
	if report.Pipelined {
		fmt.Printf("Total Stalls: %d\n", report.Stalls)
	}
	fmt.Println("Instruction counts:")
	fmt.Printf("\\ Total: %d\n", report.Counts.Total)
	fmt.Printf("\\ Arithmetic: %d\n", report.Counts.Arithmetic)
	fmt.Printf("\\ Logical: %d\n", report.Counts.Logical)
	fmt.Printf("\\ Memory: %d\n", report.Counts.Memory)
	fmt.Printf("\\ Control: %d\n", report.Counts.Control)
	fmt.Printf("CPI: %.2f\n", report.CPI)
	fmt.Println("=====================================")

	fmt.Println("Registers:")
	for _, r := range report.Registers {
		fmt.Printf("R%d = %d\n", r.Index, r.Value)
	}

	fmt.Println("Memory:")
	for _, word := range report.Memory {
		fmt.Printf("M[%d] = %d\n", word.Index, word.Value)
	}

	if report.Halted {
		fmt.Println("\nPROGRAM HALTED")
	}
}
