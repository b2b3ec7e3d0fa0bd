package dto

// SearchAttributes are the attributes of a search request.
type SearchAttributes struct {
	Query string `json:"query"`
}

// SearchData is the data member of a search request.
type SearchData struct {
	Type       string           `json:"type"`
	Attributes SearchAttributes `json:"attributes"`
}

// SearchRequest is a JSON:API search request.
type SearchRequest struct {
	Data SearchData `json:"data"`
}
