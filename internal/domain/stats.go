package domain

// CatalogStats are the aggregate counts the ingestion pipeline publishes
// alongside the vector index. All fields are optional; a zero value means
// the side-channel is absent.
type CatalogStats struct {
	TotalItems     int            `json:"total_items"`
	FurnitureTypes map[string]int `json:"furniture_types"`
	Materials      map[string]int `json:"materials"`
	Feels          map[string]int `json:"feels"`
	Styles         []string       `json:"styles"`
	RoomTypes      []string       `json:"room_types"`
}
