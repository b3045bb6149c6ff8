// Package catalog is the single source of truth for metric calibration: the
// realistic domain bounds of every statistic the dashboard plots.
package catalog

import (
	"fmt"
	"sort"

	"github.com/okian/scout/internal/domain/textfold"
	"github.com/okian/scout/internal/domain/types"
)

// Definition describes how one raw statistic maps onto the 0-100 axis.
type Definition struct {
	Key          string           `koanf:"key" json:"key"`
	Label        string           `koanf:"label" json:"label"`
	DomainMin    float64          `koanf:"domain_min" json:"domain_min"`
	DomainMax    float64          `koanf:"domain_max" json:"domain_max"`
	Invert       bool             `koanf:"invert" json:"invert"`
	IsPercentage bool             `koanf:"is_percentage" json:"is_percentage"`
	Family       types.SourceType `koanf:"family" json:"family,omitempty"`
	Aliases      []string         `koanf:"aliases" json:"aliases,omitempty"`
}

// Validate checks the definition's invariants.
func (d Definition) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidDefinition)
	}
	if !(d.DomainMin < d.DomainMax) {
		return fmt.Errorf("%w: %s: domain_min %v must be below domain_max %v", ErrInvalidDefinition, d.Key, d.DomainMin, d.DomainMax)
	}
	return nil
}

// Fields returns the record field names that may carry this metric: the key
// first, then its aliases.
func (d Definition) Fields() []string {
	return append([]string{d.Key}, d.Aliases...)
}

// Catalog is an immutable set of metric definitions.
type Catalog struct {
	defs    map[string]Definition
	order   []string
	aliases map[string]string
}

// New builds a catalog from defs. Keys must be unique and every definition
// must satisfy DomainMin < DomainMax.
func New(defs ...Definition) (*Catalog, error) {
	c := &Catalog{
		defs:    make(map[string]Definition, len(defs)),
		order:   make([]string, 0, len(defs)),
		aliases: make(map[string]string),
	}
	for _, d := range defs {
		if err := c.add(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(d Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, exists := c.defs[d.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMetric, d.Key)
	}
	d.Aliases = append([]string(nil), d.Aliases...)
	c.defs[d.Key] = d
	c.order = append(c.order, d.Key)
	c.aliases[textfold.Key(d.Key)] = d.Key
	for _, a := range d.Aliases {
		c.aliases[textfold.Key(a)] = d.Key
	}
	return nil
}

// Lookup returns the definition stored under key.
func (c *Catalog) Lookup(key string) (Definition, error) {
	d, ok := c.defs[key]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownMetric, key)
	}
	return d, nil
}

// Resolve maps a user supplied key, alias or diacritic variant to its
// canonical key.
func (c *Catalog) Resolve(key string) (string, error) {
	if _, ok := c.defs[key]; ok {
		return key, nil
	}
	if canonical, ok := c.aliases[textfold.Key(key)]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, key)
}

// ResolveLookup resolves key and returns its definition.
func (c *Catalog) ResolveLookup(key string) (Definition, error) {
	canonical, err := c.Resolve(key)
	if err != nil {
		return Definition{}, err
	}
	return c.defs[canonical], nil
}

// All returns every definition in insertion order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.defs[k])
	}
	return out
}

// ByFamily returns the definitions of one position family in insertion
// order.
func (c *Catalog) ByFamily(family types.SourceType) []Definition {
	var out []Definition
	for _, k := range c.order {
		if d := c.defs[k]; d.Family == family {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.order) }

// Override returns a new catalog where defs replace definitions with the
// same key and unknown keys are appended.
func (c *Catalog) Override(defs ...Definition) (*Catalog, error) {
	replaced := make(map[string]Definition, len(defs))
	for _, d := range defs {
		replaced[d.Key] = d
	}
	merged := make([]Definition, 0, len(c.order)+len(defs))
	for _, k := range c.order {
		if d, ok := replaced[k]; ok {
			merged = append(merged, d)
			delete(replaced, k)
			continue
		}
		merged = append(merged, c.defs[k])
	}
	rest := make([]string, 0, len(replaced))
	for k := range replaced {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	for _, k := range rest {
		merged = append(merged, replaced[k])
	}
	return New(merged...)
}
