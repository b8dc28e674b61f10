package models

// Link is a single bookmarked URL and its resolved display title.
//
// The JSON field names are part of the persisted and shareable format.
type Link struct {
	// ID is the opaque identifier assigned when the link is created.
	ID string `json:"id"`
	// URL is the target address as entered by the user.
	URL string `json:"url"`
	// Title is the current display title.
	Title string `json:"title"`
	// OriginalTitle is the title captured at creation time. It is never changed.
	OriginalTitle string `json:"originalTitle"`
}
