package moments

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/vdfclass/vdf"
)

func init() {
	Register(FormatSnapshot, func(filename string) (Dataset, error) {
		return LoadSnapshot(filename)
	})
}

// Snapshot is an in-memory cell dump: a list of cells with their flattened variables.
// It is the interchange format for cells exported from a simulation reader.
type Snapshot struct {
	Cells []SnapshotCell `yaml:"cells"`

	index map[vdf.CellID]int
}

// SnapshotCell is one cell of a Snapshot.
type SnapshotCell struct {
	ID        vdf.CellID           `yaml:"id"`
	Species   []string             `yaml:"species"` // populations with a VDF in this cell
	Variables map[string][]float64 `yaml:"variables"`
}

// LoadSnapshot reads a YAML snapshot, decompressing *.zst files with zstd.
// Uses strict parsing: unrecognized keys are rejected.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if err := snap.reindex(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save writes the snapshot as YAML, zstd-compressed when path ends in .zst (any case).
func (s *Snapshot) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if compressed(path) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("creating zstd encoder: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	return os.WriteFile(path, data, 0o644)
}

// compressed reports whether path names a zstd file, matching Detect's case folding.
func compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// NewSnapshot builds a snapshot from cells. Duplicate ids are rejected.
func NewSnapshot(cells ...SnapshotCell) (*Snapshot, error) {
	s := &Snapshot{Cells: cells}
	if err := s.reindex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snapshot) reindex() error {
	s.index = make(map[vdf.CellID]int, len(s.Cells))
	for i, c := range s.Cells {
		if _, dup := s.index[c.ID]; dup {
			return fmt.Errorf("snapshot lists cell %d twice: %w", c.ID, vdf.ErrInvalidConfig)
		}
		s.index[c.ID] = i
	}
	return nil
}

// CellsWithVDF returns ids of cells listing species, ascending.
func (s *Snapshot) CellsWithVDF(species string) ([]vdf.CellID, error) {
	var ids []vdf.CellID
	for _, c := range s.Cells {
		if slices.Contains(c.Species, species) {
			ids = append(ids, c.ID)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// ReadVariable reads name for every cell with a VDF of the variable's species.
// Unqualified names cover every cell.
func (s *Snapshot) ReadVariable(name string) ([][]float64, error) {
	var ids []vdf.CellID
	if species, _, ok := strings.Cut(name, "/"); ok {
		ids, _ = s.CellsWithVDF(species)
	} else {
		for _, c := range s.Cells {
			ids = append(ids, c.ID)
		}
		slices.Sort(ids)
	}
	out := make([][]float64, len(ids))
	for i, id := range ids {
		v, err := s.ReadCellVariable(name, id)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadCellVariable reads name for one cell.
func (s *Snapshot) ReadCellVariable(name string, cid vdf.CellID) ([]float64, error) {
	i, ok := s.index[cid]
	if !ok {
		return nil, fmt.Errorf("cell %d not in snapshot", cid)
	}
	v, ok := s.Cells[i].Variables[name]
	if !ok {
		return nil, fmt.Errorf("cell %d has no variable %q", cid, name)
	}
	return append([]float64(nil), v...), nil
}
