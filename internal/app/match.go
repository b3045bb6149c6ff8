package service

import (
	"fmt"
	"strings"

	"github.com/okian/scout/internal/domain/merge"
)

// Match strategies accepted in requests.
const (
	MatchField = "field"
	MatchID    = "id"
	MatchName  = "name"
)

// Match selects how secondary categories are joined to the primary one.
type Match struct {
	Strategy       string `json:"strategy,omitempty"`
	Field          string `json:"field,omitempty"`
	SecondaryField string `json:"secondary_field,omitempty"`
}

func (s *Service) matcher(m Match) (merge.Matcher, error) {
	field := m.Field
	if field == "" {
		field = s.matchField
	}
	switch strings.ToLower(strings.TrimSpace(m.Strategy)) {
	case "", MatchField:
		return merge.FieldMatcher{Field: field, SecondaryField: m.SecondaryField}, nil
	case MatchID:
		return merge.IDMatcher{Field: field, SecondaryField: m.SecondaryField}, nil
	case MatchName:
		if m.Field == "" {
			field = s.labelField
		}
		return merge.NameMatcher{Field: field, SecondaryField: m.SecondaryField}, nil
	}
	return nil, fmt.Errorf("%w: unknown match strategy %q", ErrInvalidRequest, m.Strategy)
}
