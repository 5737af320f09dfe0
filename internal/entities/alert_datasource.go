package entities

import (
	"fmt"
	"strings"
)

// Data source kinds.
const (
	SourceKindList      = "list"
	SourceKindDirectory = "directory"
)

// AlertDataSource is a tagged union describing where a rule's records come
// from. Kind selects the variant: "list" uses the list/site fields,
// "directory" uses Endpoint. Stored as a JSON sub-document on the rule.
type AlertDataSource struct {
	Kind string `json:"kind"`

	// list variant
	ListName   string   `json:"list_name,omitempty"`
	SiteURL    string   `json:"site_url,omitempty"`
	Fields     []string `json:"fields,omitempty"`
	Filter     string   `json:"filter,omitempty"`
	MaxRecords int      `json:"max_records,omitempty"`

	// directory variant
	Endpoint string `json:"endpoint,omitempty"`
}

// CacheKey derives a stable cache key from the source identity so
// rules bound to the same source share one fetch per TTL window.
func (s AlertDataSource) CacheKey() string {
	switch s.Kind {
	case SourceKindDirectory:
		return fmt.Sprintf("directory|%s|%s", s.Endpoint, strings.Join(s.Fields, ","))
	default:
		return fmt.Sprintf("list|%s|%s|%s|%d", s.SiteURL, s.ListName, s.Filter, s.MaxRecords)
	}
}
