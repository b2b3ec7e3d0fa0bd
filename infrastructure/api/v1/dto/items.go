// Package dto holds the JSON:API request and response schemas for the v1 API.
package dto

import "time"

// AddItemAttributes are the attributes of an item creation request.
type AddItemAttributes struct {
	Link  string   `json:"link"`
	Kind  string   `json:"kind"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// AddItemData is the data member of an item creation request.
type AddItemData struct {
	Type       string            `json:"type"`
	Attributes AddItemAttributes `json:"attributes"`
}

// AddItemRequest is a JSON:API item creation request.
type AddItemRequest struct {
	Data AddItemData `json:"data"`
}

// ItemAttributes are the attributes of an item resource.
type ItemAttributes struct {
	Link               string    `json:"link"`
	Kind               string    `json:"kind"`
	Title              string    `json:"title"`
	FetchedTitle       *string   `json:"fetched_title,omitempty"`
	FetchedDescription *string   `json:"fetched_description,omitempty"`
	ThumbnailURL       *string   `json:"thumbnail_url,omitempty"`
	TagIDs             []string  `json:"tag_ids"`
	Searchable         bool      `json:"searchable"`
	CreatedAt          time.Time `json:"created_at"`
}
