package moments

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/inference-sim/vdfclass/vdf"
)

// Format identifies a simulation output format.
type Format string

const (
	// FormatVlasiator is a Vlasiator VLSV file (*.vlsv).
	FormatVlasiator Format = "vlasiator"
	// FormatFLEKS is a FLEKS particle output (*.out, or an AMReX plotfile with "amrex" in its name).
	FormatFLEKS Format = "fleks"
	// FormatSnapshot is a YAML cell dump (*.yaml, *.yml, optionally zstd-compressed as *.zst).
	FormatSnapshot Format = "snapshot"
)

// OpenFunc opens a simulation file of one format.
type OpenFunc func(filename string) (Dataset, error)

var (
	readersMu sync.RWMutex
	readers   = map[Format]OpenFunc{}
)

// Register installs the reader for a format, replacing any previous one.
// Reader packages call this from init().
func Register(format Format, open OpenFunc) {
	readersMu.Lock()
	defer readersMu.Unlock()
	if open == nil {
		delete(readers, format)
		return
	}
	readers[format] = open
}

// Detect determines the format of filename from its name alone.
// Unrecognized names fail with vdf.ErrUnknownFormat.
func Detect(filename string) (Format, error) {
	base := strings.ToLower(filepath.Base(filename))
	trimmed := strings.TrimSuffix(base, ".zst")
	switch {
	case strings.HasSuffix(base, ".vlsv"):
		return FormatVlasiator, nil
	case strings.HasSuffix(trimmed, ".yaml"), strings.HasSuffix(trimmed, ".yml"):
		return FormatSnapshot, nil
	case strings.HasSuffix(base, ".out"), strings.Contains(filename, "amrex"):
		return FormatFLEKS, nil
	default:
		return "", fmt.Errorf("%q: %w", filename, vdf.ErrUnknownFormat)
	}
}

// Open detects the format of filename and opens it with the registered reader.
func Open(filename string) (Dataset, error) {
	format, err := Detect(filename)
	if err != nil {
		return nil, err
	}
	readersMu.RLock()
	open, ok := readers[format]
	readersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s (%q): %w", format, filename, vdf.ErrReaderUnavailable)
	}
	ds, err := open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s file %q: %w", format, filename, err)
	}
	return ds, nil
}
