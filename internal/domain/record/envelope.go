package record

import (
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the per-category response shape of the upstream stats API.
type Envelope struct {
	Success bool  `json:"success"`
	Data    []Raw `json:"data"`
}

// DecodeEnvelope reads one envelope from r. Numbers are kept as json.Number
// so identifiers survive without float rounding.
func DecodeEnvelope(r io.Reader) (Envelope, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var env Envelope
	if err := dec.Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrDecodeEnvelope, err)
	}
	return env, nil
}

// Records returns the envelope's rows. A success:false envelope yields no
// rows and ErrSourceUnavailable; a successful envelope with missing data
// yields no rows and no error.
func (e Envelope) Records() ([]Raw, error) {
	if !e.Success {
		return []Raw{}, ErrSourceUnavailable
	}
	out := make([]Raw, 0, len(e.Data))
	for _, r := range e.Data {
		if r == nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
