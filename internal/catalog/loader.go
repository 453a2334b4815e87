package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Flat-file catalog format, one record per line:
//
//	id|name|price|image_url|description
//
// price is a decimal string ("4.50"). A malformed record or a duplicate id
// is a load error; the caller is expected to abort startup rather than run
// with partial data.

const melonFields = 5

// LoadFile reads the melon dataset and returns a ready MemStore.
func LoadFile(path string) (*MemStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open melon file: %w", err)
	}
	defer f.Close()

	melons, err := ParseMelons(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return NewMemStore(melons), nil
}

// ParseMelons parses pipe-delimited melon records in load order.
func ParseMelons(r io.Reader) ([]Melon, error) {
	var (
		melons []Melon
		seen   = make(map[string]struct{})
		lineNo int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != melonFields {
			return nil, fmt.Errorf("line %d: want %d fields, got %d", lineNo, melonFields, len(parts))
		}

		id := strings.TrimSpace(parts[0])
		if id == "" {
			return nil, fmt.Errorf("line %d: empty melon id", lineNo)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("line %d: duplicate melon id %q", lineNo, id)
		}
		seen[id] = struct{}{}

		cents, err := ParsePriceCents(parts[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		melons = append(melons, Melon{
			ID:          id,
			Name:        parts[1],
			PriceCents:  cents,
			ImageURL:    parts[3],
			Description: parts[4],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return melons, nil
}
