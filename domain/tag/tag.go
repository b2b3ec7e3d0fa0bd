// Package tag provides the tag domain type and its store contract.
package tag

// Tag is a named label attached to items. Titles are unique (case-sensitive
// exact match). A tag only exists while at least one item references it; the
// deletion coordinator garbage-collects unreferenced tags.
type Tag struct {
	id    string
	title string
}

// New creates a Tag.
func New(id, title string) Tag {
	return Tag{id: id, title: title}
}

// ID returns the tag identifier.
func (t Tag) ID() string { return t.id }

// Title returns the unique tag title.
func (t Tag) Title() string { return t.title }
