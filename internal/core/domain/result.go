package domain

import "time"

// ResultItem is the unit returned to a caller after aggregation.
// It is the minimal projection shared by every entity kind the
// discovery pages can surface (artist, work, news item, article).
type ResultItem struct {
	// ID is the identity key used to de-duplicate items contributed
	// by multiple sources describing the same underlying entity.
	ID string

	// Kind names the entity type, e.g. "artist", "work", "news".
	Kind string

	// DisplayName is the human-readable name shown in result lists.
	DisplayName string

	// Href is the link target for the item. Internal items carry a
	// site-relative path, externally-linked news items a full URL.
	Href string

	// UpdatedAt is the record's last-modified timestamp. The zero
	// time sorts as oldest when a cap truncates the result set.
	UpdatedAt time.Time
}

// PresentationKey is the composite de-duplication key applied at the
// presentation layer, where heterogeneous kinds can collide on title
// (an externally-linked news item and an internal article with the
// same name are still two distinct entries unless they share a link).
func (r ResultItem) PresentationKey() string {
	return r.DisplayName + "\x00" + r.Href
}
