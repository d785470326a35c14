package data

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/PetrotechnicalDataSystems/witsml-server/internal/units"
	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

// Column is one resolved position of a data section.
type Column struct {
	Mnemonic string
	Unit     string
	Null     string
}

// Batch is the consumable view over submitted inline rows. It is built once
// per Add/Update, scanned for ranges during construction, and then handed to
// the store for bulk persistence. Never persisted as-is.
type Batch struct {
	indexMnemonic string
	timeIndexed   bool

	points  []Point
	ranges  map[string]witsml.IndexRange
	rows    int
	skipped int
}

// Build scans the inline sections of a header into a batch. The header
// supplies the column layout: per-column units and null sentinels come from
// its curve list, with index values converted into the index curve's
// declared unit when a section declares a different one. For updates the
// caller passes the stored header with fragment curves already reconciled
// in, so inherited layout wins over whatever the wire carried.
func Build(hdr *witsml.Log, sections []*witsml.LogData, reg *units.Registry) (*Batch, error) {
	b := &Batch{
		indexMnemonic: hdr.IndexCurve,
		timeIndexed:   hdr.IsTimeIndexed(),
		ranges:        make(map[string]witsml.IndexRange),
	}
	for _, section := range sections {
		if section == nil || len(section.Data) == 0 {
			continue
		}
		if err := b.scanSection(hdr, section, reg); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Batch) scanSection(hdr *witsml.Log, section *witsml.LogData, reg *units.Registry) error {
	cols, idxPos, err := resolveColumns(hdr, section)
	if err != nil {
		return err
	}

	// Depth index values arrive in the section's declared unit and are
	// stored in the index curve's unit.
	convertIndex := func(v float64) (float64, error) { return v, nil }
	if !b.timeIndexed {
		declared := ""
		if ic := hdr.IndexCurveInfo(); ic != nil {
			declared = ic.Unit
		}
		submitted := cols[idxPos].Unit
		if declared != "" && submitted != "" && reg.Canonical(submitted) != reg.Canonical(declared) {
			from, to := submitted, declared
			convertIndex = func(v float64) (float64, error) { return reg.Convert(v, from, to) }
		}
	}

	for _, row := range section.Data {
		cells := strings.Split(row, ",")
		if len(cells) != len(cols) {
			return witsml.Validationf("row %q: %d cells for %d columns", row, len(cells), len(cols))
		}
		idx, ok := b.parseIndex(strings.TrimSpace(cells[idxPos]), convertIndex)
		if !ok {
			b.skipped++
			continue
		}
		b.rows++
		b.fold(b.indexMnemonic, idx)
		for i, cell := range cells {
			if i == idxPos {
				continue
			}
			cell = strings.TrimSpace(cell)
			if isNull(cell, cols[i].Null) {
				continue
			}
			b.points = append(b.points, Point{Mnemonic: cols[i].Mnemonic, Index: idx, Value: cell})
			b.fold(cols[i].Mnemonic, idx)
		}
	}
	return nil
}

// parseIndex reads one index cell into the raw representation. Rows whose
// index cannot be read contribute nothing.
func (b *Batch) parseIndex(cell string, convert func(float64) (float64, error)) (float64, bool) {
	if cell == "" {
		return 0, false
	}
	if b.timeIndexed {
		us, err := witsml.ParseIndexTime(cell)
		if err != nil {
			return 0, false
		}
		return float64(us), true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	v, err = convert(v)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (b *Batch) fold(mnemonic string, idx float64) {
	r := b.ranges[mnemonic]
	if r.Start == nil || idx < *r.Start {
		r.Start = witsml.Float64(idx)
	}
	if r.End == nil || idx > *r.End {
		r.End = witsml.Float64(idx)
	}
	b.ranges[mnemonic] = r
}

// resolveColumns maps a section's mnemonic list onto the header's curve
// list, deriving per-column unit and null sentinel positionally. The section
// must include the index mnemonic and no duplicates.
func resolveColumns(hdr *witsml.Log, section *witsml.LogData) ([]Column, int, error) {
	names := splitList(section.MnemonicList)
	if len(names) == 0 {
		return nil, 0, witsml.Validationf("data section without mnemonicList")
	}
	unitList := splitList(section.UnitList)
	if len(unitList) > 0 && len(unitList) != len(names) {
		return nil, 0, witsml.Validationf("unitList has %d entries for %d mnemonics", len(unitList), len(names))
	}

	cols := make([]Column, len(names))
	idxPos := -1
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if name == "" {
			return nil, 0, witsml.Validationf("empty mnemonic at column %d", i)
		}
		if seen[name] {
			return nil, 0, witsml.Validationf("duplicate mnemonic %q in data section", name)
		}
		seen[name] = true
		curve := hdr.Curve(name)
		unit := ""
		if len(unitList) > 0 {
			unit = unitList[i]
		}
		if unit == "" && curve != nil {
			unit = curve.Unit
		}
		cols[i] = Column{Mnemonic: name, Unit: unit, Null: hdr.NullFor(curve)}
		if name == hdr.IndexCurve {
			idxPos = i
		}
	}
	if idxPos < 0 {
		return nil, 0, witsml.Validationf("data section %q does not carry index curve %q",
			section.MnemonicList, hdr.IndexCurve)
	}
	return cols, idxPos, nil
}

func splitList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// isNull reports whether a cell is an absent value: empty, the column's
// sentinel, numerically equal to the sentinel, or NaN.
func isNull(cell, sentinel string) bool {
	if cell == "" || cell == sentinel {
		return true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return false
	}
	if math.IsNaN(v) {
		return true
	}
	if sv, err := strconv.ParseFloat(sentinel, 64); err == nil && v == sv {
		return true
	}
	return false
}

// MinMax returns the index bounds over which a mnemonic has values,
// numerically normalized. The second result is false when the batch carries
// nothing for that mnemonic.
func (b *Batch) MinMax(mnemonic string) (witsml.IndexRange, bool) {
	r, ok := b.ranges[mnemonic]
	return r, ok
}

// IndexRange returns the bounds of the shared index across all scanned rows.
func (b *Batch) IndexRange() (witsml.IndexRange, bool) {
	return b.MinMax(b.indexMnemonic)
}

// Mnemonics lists every mnemonic the batch constrains, sorted for
// deterministic iteration. Includes the index mnemonic when any row parsed.
func (b *Batch) Mnemonics() []string {
	out := make([]string, 0, len(b.ranges))
	for mn := range b.ranges {
		out = append(out, mn)
	}
	sort.Strings(out)
	return out
}

// Points streams the batch's sample values for bulk persistence.
func (b *Batch) Points() Iterator[Point] { return NewSliceIterator(b.points) }

// Len reports the number of sample points (index cells excluded).
func (b *Batch) Len() int { return len(b.points) }

// Rows reports how many rows carried a readable index.
func (b *Batch) Rows() int { return b.rows }

// Skipped reports rows dropped for an unreadable index.
func (b *Batch) Skipped() int { return b.skipped }

// IsEmpty reports whether the scan produced no constraints at all.
func (b *Batch) IsEmpty() bool { return len(b.ranges) == 0 }
