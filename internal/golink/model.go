package golink

import (
	"time"

	"github.com/google/uuid"
)

// Link is a registry entry mapping a short name ("go/name") to a
// destination URL. ID and CreatedAt are assigned once at creation;
// only URL may change afterwards.
type Link struct {
	ID        uuid.UUID
	ShortLink string
	URL       string
	CreatedAt time.Time
}

// LinkJSON is the wire representation of a Link. CreatedAt is RFC 3339
// with sub-second precision and UTC offset.
type LinkJSON struct {
	ID        string `json:"id"`
	ShortLink string `json:"short_link"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

// ToJSON converts a Link to its wire shape.
func (l Link) ToJSON() LinkJSON {
	return LinkJSON{
		ID:        l.ID.String(),
		ShortLink: l.ShortLink,
		URL:       l.URL,
		CreatedAt: l.CreatedAt.Format(time.RFC3339Nano),
	}
}
