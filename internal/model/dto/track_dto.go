package dto

import "encoding/json"

// TrackEntry is one interaction in a track request. Fields are validated
// by hand rather than with binding tags so that a malformed entry inside
// a batch produces an indexed error instead of rejecting the request.
type TrackEntry struct {
	PostID          interface{}     `json:"post_id"`
	InteractionType interface{}     `json:"interaction_type"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
}

// BatchTrackRequest is the batched form of a track request.
type BatchTrackRequest struct {
	Interactions []TrackEntry `json:"interactions"`
}

// TrackResponse reports how many entries were stored. Errors holds the
// per-entry validation messages for the entries that were skipped.
type TrackResponse struct {
	Success bool     `json:"success"`
	Tracked int      `json:"tracked"`
	Errors  []string `json:"errors,omitempty"`
}
