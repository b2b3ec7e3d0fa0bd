package dto

// TagAttributes are the attributes of a tag resource.
type TagAttributes struct {
	Title string `json:"title"`
}
