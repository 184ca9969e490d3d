package model

// CatalogRoom is the display metadata and nominal price the external catalog
// service publishes for a room. The engine does not own or validate it; it
// only locks the price into cart selections.
type CatalogRoom struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PricePerNight Money  `json:"price_per_night"`
	Visible       bool   `json:"visible"`
}

// CatalogService is the catalog's view of a bookable service.
type CatalogService struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           Money  `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
	Visible         bool   `json:"visible"`
}
