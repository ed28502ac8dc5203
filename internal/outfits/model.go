package outfits

import "time"

// Request is the provider endpoint's input.
type Request struct {
	BodyShape string `json:"bodyShape"`
	Gender    string `json:"gender"`
}

// Response is the provider endpoint's success payload. Images holds 0 to 3 URLs
// in look order.
type Response struct {
	Recommendation string   `json:"recommendation"`
	Images         []string `json:"images"`
}

// Record is one generation in the ledger.
type Record struct {
	ID             string    `db:"id" json:"id"`
	ClientID       string    `db:"client_id" json:"clientId"`
	BodyShape      string    `db:"body_shape" json:"bodyShape"`
	Gender         string    `db:"gender" json:"gender"`
	Outcome        string    `db:"outcome" json:"outcome"`
	ErrorMessage   string    `db:"error_message" json:"errorMessage,omitempty"`
	Recommendation string    `db:"recommendation" json:"recommendation"`
	ImageCount     int       `db:"image_count" json:"imageCount"`
	ImageURLs      string    `db:"image_urls" json:"-"`
	Images         []string  `db:"-" json:"images"`
	DurationMs     int64     `db:"duration_ms" json:"durationMs"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}
