// Package assets resolves entity image URLs.
package assets

import (
	"net/url"
	"strings"

	"github.com/okian/scout/internal/domain/types"
)

// Lookup maps an entity to its image URL. Implementations are read-only and
// safe for concurrent use.
type Lookup interface {
	ImageURL(source types.SourceType, entityID string) (string, bool)
}

// Template builds URLs by substituting {type} and {id} in a pattern such as
// "https://cdn.example.com/{type}/{id}.png".
type Template struct {
	pattern string
}

// NewTemplate returns a Template. An empty pattern resolves nothing.
func NewTemplate(pattern string) Template {
	return Template{pattern: strings.TrimSpace(pattern)}
}

func (t Template) ImageURL(source types.SourceType, entityID string) (string, bool) {
	entityID = strings.TrimSpace(entityID)
	if t.pattern == "" || entityID == "" {
		return "", false
	}
	r := strings.NewReplacer(
		"{type}", url.PathEscape(string(source)),
		"{id}", url.PathEscape(entityID),
	)
	return r.Replace(t.pattern), true
}

// Static serves a fixed id to URL table, falling back to Next when set.
type Static struct {
	URLs map[string]string
	Next Lookup
}

func (s Static) ImageURL(source types.SourceType, entityID string) (string, bool) {
	if u, ok := s.URLs[strings.TrimSpace(entityID)]; ok {
		return u, true
	}
	if s.Next != nil {
		return s.Next.ImageURL(source, entityID)
	}
	return "", false
}

// None resolves nothing.
type None struct{}

func (None) ImageURL(types.SourceType, string) (string, bool) { return "", false }
