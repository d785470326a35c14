// Package units resolves unit symbols and converts index and curve values
// between compatible units. The table ships embedded so lookups never reach
// outside the process.
package units

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/PetrotechnicalDataSystems/witsml-server/pkg/witsml"
)

//go:embed units.yaml
var unitsYAML []byte

// Unit is one entry of the conversion table. A value converts into the
// dimension's base as value*Factor + Offset.
type Unit struct {
	Symbol    string  `yaml:"symbol"`
	Dimension string  `yaml:"dimension"`
	Factor    float64 `yaml:"factor"`
	Offset    float64 `yaml:"offset"`
}

type table struct {
	Units   []Unit            `yaml:"units"`
	Aliases map[string]string `yaml:"aliases"`
}

// Registry answers symbol lookups and conversions.
type Registry struct {
	units   map[string]Unit
	aliases map[string]string
}

// Load parses a unit table. Symbols must be unique.
func Load(raw []byte) (*Registry, error) {
	var t table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse unit table: %w", err)
	}
	r := &Registry{
		units:   make(map[string]Unit, len(t.Units)),
		aliases: t.Aliases,
	}
	for _, u := range t.Units {
		if u.Symbol == "" {
			return nil, fmt.Errorf("unit table entry without symbol")
		}
		if _, dup := r.units[u.Symbol]; dup {
			return nil, fmt.Errorf("duplicate unit symbol %q", u.Symbol)
		}
		if u.Factor == 0 {
			return nil, fmt.Errorf("unit %q: zero factor", u.Symbol)
		}
		r.units[u.Symbol] = u
	}
	for alias, target := range t.Aliases {
		if _, ok := r.units[target]; !ok {
			return nil, fmt.Errorf("alias %q points at unknown unit %q", alias, target)
		}
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := Load(unitsYAML)
	if err != nil {
		panic(fmt.Sprintf("units: embedded table invalid: %v", err))
	}
	return r
})

// Default returns the registry backed by the embedded table.
func Default() *Registry { return defaultRegistry() }

// Canonical maps aliases and case variants onto table symbols. Unknown
// symbols come back unchanged.
func (r *Registry) Canonical(symbol string) string {
	s := strings.TrimSpace(symbol)
	if _, ok := r.units[s]; ok {
		return s
	}
	if target, ok := r.aliases[strings.ToLower(s)]; ok {
		return target
	}
	return s
}

// Lookup resolves a symbol or alias to its table entry.
func (r *Registry) Lookup(symbol string) (Unit, error) {
	u, ok := r.units[r.Canonical(symbol)]
	if !ok {
		return Unit{}, witsml.Lookupf("unknown unit %q", symbol)
	}
	return u, nil
}

// Convertible reports whether two symbols resolve to the same dimension.
func (r *Registry) Convertible(from, to string) bool {
	uf, err := r.Lookup(from)
	if err != nil {
		return false
	}
	ut, err := r.Lookup(to)
	if err != nil {
		return false
	}
	return uf.Dimension == ut.Dimension
}

// Convert moves a value between units of the same dimension.
func (r *Registry) Convert(v float64, from, to string) (float64, error) {
	if r.Canonical(from) == r.Canonical(to) {
		return v, nil
	}
	uf, err := r.Lookup(from)
	if err != nil {
		return 0, err
	}
	ut, err := r.Lookup(to)
	if err != nil {
		return 0, err
	}
	if uf.Dimension != ut.Dimension {
		return 0, witsml.Lookupf("cannot convert %q to %q: %s vs %s",
			from, to, uf.Dimension, ut.Dimension)
	}
	base := v*uf.Factor + uf.Offset
	return (base - ut.Offset) / ut.Factor, nil
}
