package models

import "time"

// Post is one extracted feed item from a profile timeline.
//
// ID is the platform-assigned numeric status id and is always non-empty
// for a record that survived extraction; Timestamp is always a valid
// instant (absolute when the DOM carried one, otherwise derived from the
// relative-time label in RelativeTime).
type Post struct {
	// ID is the numeric status id taken from the permalink.
	ID string `json:"id"`

	// Handle is the author handle the scrape targeted.
	Handle string `json:"handle"`

	// DisplayName is the author's display name, falling back to the
	// handle when the DOM yields nothing.
	DisplayName string `json:"display_name"`

	// Text is the post body.
	Text string `json:"text"`

	// Link is the canonical permalink to the post.
	Link string `json:"link"`

	// Timestamp is the post's publication instant.
	Timestamp time.Time `json:"timestamp"`

	// RelativeTime is the raw relative-time label as rendered ("2h").
	// Empty when the DOM carried an absolute timestamp.
	RelativeTime string `json:"relative_time,omitempty"`

	// Engagement counters. Missing or unparseable metrics are zero.
	Likes   int `json:"likes"`
	Reposts int `json:"reposts"`
	Replies int `json:"replies"`
	Views   int `json:"views"`

	// ExtractedAt is when this record was pulled from the DOM.
	ExtractedAt time.Time `json:"extracted_at"`

	// Position is the 0-based order of appearance among the candidates
	// processed at extraction time, before any re-sorting.
	Position int `json:"position"`
}
