package models

// Show represents a TV show returned by a catalog search.
// Image is never empty: shows without artwork carry the fallback image URL.
type Show struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Image   string `json:"image"`
}

// ShowCard is a Show as it appears on a rendered page, paired with the
// opaque handle its node is tagged with.
type ShowCard struct {
	Show   Show
	Handle string
}
