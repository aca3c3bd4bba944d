package domain

import "strings"

// KeyPrefix namespaces all keys written by the ingestion pipeline.
const KeyPrefix = "furnidex:"

// FurnitureItem is a catalog item snapshot returned by the vector index.
// Items are created exclusively by the external ingestion pipeline; this
// service only reads them.
type FurnitureItem struct {
	ID            string
	Name          string
	FurnitureType string
	Material      string
	Color         string
	Feel          string
	IsAccessory   bool
	Dimensions    string
	Description   string
}

// ParseAccessoryFlag normalizes the is_accessory metadata value. The
// ingestion pipeline stores it as the strings "True"/"False".
func ParseAccessoryFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// FormatAccessoryFlag renders the flag back in the catalog's convention.
func FormatAccessoryFlag(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
