package quadrant

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/okian/scout/internal/domain/types"
)

// Captions holds the corner text of a chart, one entry per quadrant.
type Captions struct {
	HighXHighY string `koanf:"high_x_high_y" json:"high_x_high_y"`
	HighXLowY  string `koanf:"high_x_low_y" json:"high_x_low_y"`
	LowXHighY  string `koanf:"low_x_high_y" json:"low_x_high_y"`
	LowXLowY   string `koanf:"low_x_low_y" json:"low_x_low_y"`
}

// Get returns the text for q.
func (c Captions) Get(q Quadrant) string {
	switch q {
	case HighXHighY:
		return c.HighXHighY
	case HighXLowY:
		return c.HighXLowY
	case LowXHighY:
		return c.LowXHighY
	case LowXLowY:
		return c.LowXLowY
	}
	return ""
}

// MarshalJSON emits the captions keyed by quadrant name.
func (c Captions) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, 4)
	for _, q := range All() {
		m[q.String()] = c.Get(q)
	}
	return json.Marshal(m)
}

// Pair is a calibrated two-metric chart.
type Pair struct {
	ID         string           `koanf:"id" json:"id"`
	Title      string           `koanf:"title" json:"title"`
	Source     types.SourceType `koanf:"source" json:"source"`
	XMetric    string           `koanf:"x_metric" json:"x_metric"`
	YMetric    string           `koanf:"y_metric" json:"y_metric"`
	XThreshold float64          `koanf:"x_threshold" json:"x_threshold"`
	YThreshold float64          `koanf:"y_threshold" json:"y_threshold"`
	// XRaw and YRaw plot the metric as found instead of its 0-100 score.
	// Thresholds are expressed on the plotted scale.
	XRaw bool `koanf:"x_raw" json:"x_raw"`
	YRaw bool `koanf:"y_raw" json:"y_raw"`
	// XLowerIsBetter and YLowerIsBetter flip a raw axis so that values at or
	// below the threshold fall in the high half. Normalized axes already
	// carry inversion in their score.
	XLowerIsBetter bool     `koanf:"x_lower_is_better" json:"x_lower_is_better,omitempty"`
	YLowerIsBetter bool     `koanf:"y_lower_is_better" json:"y_lower_is_better,omitempty"`
	Labels         Captions `koanf:"labels" json:"labels"`
	Captions       Captions `koanf:"captions" json:"captions"`
}

// Validate checks the pair is usable.
func (p Pair) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidPair)
	}
	if p.XMetric == "" || p.YMetric == "" {
		return fmt.Errorf("%w: %s: both metrics are required", ErrInvalidPair, p.ID)
	}
	if (p.XLowerIsBetter && !p.XRaw) || (p.YLowerIsBetter && !p.YRaw) {
		return fmt.Errorf("%w: %s: lower_is_better needs a raw axis", ErrInvalidPair, p.ID)
	}
	return nil
}

// Classify places (x, y) with the pair's thresholds.
func (p Pair) Classify(x, y float64) Quadrant {
	xt, yt := p.XThreshold, p.YThreshold
	if p.XLowerIsBetter {
		x, xt = -x, -xt
	}
	if p.YLowerIsBetter {
		y, yt = -y, -yt
	}
	return Classify(x, y, xt, yt)
}

// Table is a read-only set of pairs keyed by id.
type Table struct {
	pairs map[string]Pair
	order []string
}

// NewTable builds a table. Later pairs replace earlier ones with the same
// id.
func NewTable(pairs ...Pair) (*Table, error) {
	t := &Table{pairs: make(map[string]Pair, len(pairs))}
	for _, p := range pairs {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := t.pairs[p.ID]; !exists {
			t.order = append(t.order, p.ID)
		}
		t.pairs[p.ID] = p
	}
	return t, nil
}

// Pair returns the pair stored under id.
func (t *Table) Pair(id string) (Pair, error) {
	p, ok := t.pairs[id]
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q", ErrUnknownPair, id)
	}
	return p, nil
}

// Label returns the point label for q on pair id.
func (t *Table) Label(id string, q Quadrant) (string, error) {
	p, err := t.Pair(id)
	if err != nil {
		return "", err
	}
	return p.Labels.Get(q), nil
}

// Captions returns the corner captions of pair id.
func (t *Table) Captions(id string) (Captions, error) {
	p, err := t.Pair(id)
	if err != nil {
		return Captions{}, err
	}
	return p.Captions, nil
}

// All returns the pairs in insertion order.
func (t *Table) All() []Pair {
	out := make([]Pair, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.pairs[id])
	}
	return out
}

// IDs returns the sorted pair ids.
func (t *Table) IDs() []string {
	ids := append([]string(nil), t.order...)
	sort.Strings(ids)
	return ids
}

// Override returns a table with pairs replacing or extending t.
func (t *Table) Override(pairs ...Pair) (*Table, error) {
	return NewTable(append(t.All(), pairs...)...)
}
