package model

import "time"

// Upload is the ledger record of one stored image file.
type Upload struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	Format      string    `json:"format,omitempty"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	Uploaded    time.Time `json:"uploaded"`
}

// Stats summarises the ledger for one user.
type Stats struct {
	Count int   `json:"count"`
	Bytes int64 `json:"bytes"`
}

// ImageLinks is the response body of the link listing.
type ImageLinks struct {
	ImageLinks []string `json:"imageLinks"`
}
