package dto

// SharingAttributes are the attributes of a sharing toggle request and of
// the sharing state resource returned by it.
type SharingAttributes struct {
	Shared bool `json:"shared"`
}

// SharingData is the data member of a sharing toggle request.
type SharingData struct {
	Type       string            `json:"type"`
	Attributes SharingAttributes `json:"attributes"`
}

// SharingRequest is a JSON:API sharing toggle request.
type SharingRequest struct {
	Data SharingData `json:"data"`
}

// SharedItemSchema is one item in a public shared view. It carries tag
// titles instead of identifiers and no owner or vector fields.
type SharedItemSchema struct {
	Link               string   `json:"link"`
	Kind               string   `json:"kind"`
	Title              string   `json:"title"`
	FetchedTitle       *string  `json:"fetched_title,omitempty"`
	FetchedDescription *string  `json:"fetched_description,omitempty"`
	ThumbnailURL       *string  `json:"thumbnail_url,omitempty"`
	Tags               []string `json:"tags"`
}

// SharedViewAttributes are the attributes of a public shared view resource.
type SharedViewAttributes struct {
	Username string             `json:"username"`
	Items    []SharedItemSchema `json:"items"`
}
