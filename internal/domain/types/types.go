// Package types contains common types used across the application
package types

import "strings"

// SourceType identifies which population an entity belongs to.
type SourceType string

// Known source types.
const (
	Goalkeeper SourceType = "goalkeeper"
	Defender   SourceType = "defender"
	Midfielder SourceType = "midfielder"
	Forward    SourceType = "forward"
	Team       SourceType = "team"
)

// SourceTypes lists every known source type in display order.
func SourceTypes() []SourceType {
	return []SourceType{Goalkeeper, Defender, Midfielder, Forward, Team}
}

// ParseSourceType maps a user or upstream supplied value to a SourceType.
// Common short codes (GK, DEF, MID, FWD) and the Turkish position names used
// by the upstream feeds are accepted.
func ParseSourceType(s string) (SourceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "goalkeeper", "gk", "kaleci":
		return Goalkeeper, true
	case "defender", "def", "df", "defans":
		return Defender, true
	case "midfielder", "mid", "mf", "orta saha", "ortasaha":
		return Midfielder, true
	case "forward", "fwd", "fw", "forvet":
		return Forward, true
	case "team", "takim", "takım":
		return Team, true
	}
	return "", false
}

// SortOrder controls the direction of a stable sort.
type SortOrder string

// Sort directions.
const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder returns the order for s, defaulting to Descending.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending
	default:
		return Descending
	}
}
