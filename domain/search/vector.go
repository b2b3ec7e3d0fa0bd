package search

import "context"

// VectorIndex defines operations on the similarity index. Entries are keyed
// by the owning item's identifier, which is the join key back to
// the document store. The index has a single logical namespace; tenant
// isolation is enforced by the document-store join, not here.
type VectorIndex interface {
	// Upsert adds or replaces the entry with the same identifier.
	Upsert(ctx context.Context, entry Entry) error

	// Query returns up to topK matches ordered by similarity descending.
	Query(ctx context.Context, vector []float64, topK int) ([]Match, error)

	// Delete removes an entry. Deleting a nonexistent identifier is a no-op.
	Delete(ctx context.Context, id string) error
}

// EntryMetadata is a small bag of denormalized item fields stored alongside
// the vector for index-side inspection. The document store remains the
// source of truth.
type EntryMetadata struct {
	ownerID string
	link    string
	kind    string
	title   string
}

// NewEntryMetadata creates an EntryMetadata.
func NewEntryMetadata(ownerID, link, kind, title string) EntryMetadata {
	return EntryMetadata{
		ownerID: ownerID,
		link:    link,
		kind:    kind,
		title:   title,
	}
}

// OwnerID returns the owner identifier.
func (m EntryMetadata) OwnerID() string { return m.ownerID }

// Link returns the source link.
func (m EntryMetadata) Link() string { return m.link }

// Kind returns the content kind.
func (m EntryMetadata) Kind() string { return m.kind }

// Title returns the user-supplied title.
func (m EntryMetadata) Title() string { return m.title }

// Entry is a vector record keyed by its owning item's identifier.
type Entry struct {
	id     string
	vector []float64
	meta   EntryMetadata
}

// NewEntry creates an Entry. The vector is defensively copied.
func NewEntry(id string, vector []float64, meta EntryMetadata) Entry {
	cp := make([]float64, len(vector))
	copy(cp, vector)
	return Entry{id: id, vector: cp, meta: meta}
}

// ID returns the entry identifier (the owning item's identifier).
func (e Entry) ID() string { return e.id }

// Vector returns a copy of the embedding vector.
func (e Entry) Vector() []float64 {
	cp := make([]float64, len(e.vector))
	copy(cp, e.vector)
	return cp
}

// Metadata returns the denormalized metadata bag.
func (e Entry) Metadata() EntryMetadata { return e.meta }

// Match is a similarity-search result.
type Match struct {
	id    string
	score float64
}

// NewMatch creates a Match.
func NewMatch(id string, score float64) Match {
	return Match{id: id, score: score}
}

// ID returns the matched entry's identifier.
func (m Match) ID() string { return m.id }

// Score returns the similarity score, higher is more similar.
func (m Match) Score() float64 { return m.score }
