package models

// Game is the canonical catalog entry for a single video game.
//
// External provider candidates are mapped into this structure first,
// then we write to the DB from this representation. Platforms is kept
// as a single ", "-joined string so the stored shape matches the API
// response shape exactly.
type Game struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Platforms   string  `json:"platforms,omitempty"`   // e.g. "PC, Switch"
	ReleaseDate string  `json:"releaseDate,omitempty"` // YYYY-MM-DD
	Rating      float64 `json:"rating,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}
