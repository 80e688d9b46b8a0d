// Package loader reads a MIPS Lite memory-image file: plain text, one
// 32-bit word per line, hexadecimal without a "0x" prefix, up to the
// memory capacity. Program words and data words share the flat space
// this produces — the loader has no notion of segments or an entry
// point distinct from address 0.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/mipslite/emu"
)

// Load reads the memory image at path and populates memory starting at
// word index 0. Lines are consumed in order; a line that fails to parse
// as hexadecimal, or an image with more lines than emu.Capacity, is a
// fatal error (spec §7).
func Load(path string, memory *emu.Memory) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loader: failed to open memory image: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	i := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if i >= emu.Capacity {
			return fmt.Errorf("loader: memory image exceeds capacity of %d words", emu.Capacity)
		}

		word, err := strconv.ParseUint(line, 16, 32)
		if err != nil {
			return fmt.Errorf("loader: line %d (%q) is not a valid hex word: %w", i+1, line, err)
		}

		memory.LoadWord(i, uint32(word))
		i++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("loader: failed to read memory image: %w", err)
	}

	return nil
}
