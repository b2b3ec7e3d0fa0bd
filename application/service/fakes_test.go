package service

import (
	"context"
	"sort"
	"sync"

	"github.com/curatehq/curate/domain/item"
	"github.com/curatehq/curate/domain/search"
	"github.com/curatehq/curate/domain/tag"
	"github.com/curatehq/curate/domain/user"
	"github.com/curatehq/curate/internal/database"
)

// In-memory fakes for the store and collaborator contracts. Error fields
// force specific failures; an unset field means the operation succeeds.

type fakeItemStore struct {
	mu           sync.Mutex
	items        map[string]item.Item
	tags         *fakeTagStore
	createErr    error
	setRefErr    error
	deleteErr    error
	byVectorErr  error
	refSweepErr  error
	deletedItems []string
}

func newFakeItemStore(tags *fakeTagStore) *fakeItemStore {
	return &fakeItemStore{items: map[string]item.Item{}, tags: tags}
}

func (s *fakeItemStore) Create(_ context.Context, it item.Item) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID()] = it
	return nil
}

func (s *fakeItemStore) Get(_ context.Context, id string) (item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return item.Item{}, database.ErrNotFound
	}
	return it, nil
}

func (s *fakeItemStore) ByOwner(_ context.Context, ownerID string, page item.Page) ([]item.Item, int64, error) {
	all := s.ownerItems(ownerID)
	total := int64(len(all))
	start := page.Offset()
	if start >= len(all) {
		return []item.Item{}, total, nil
	}
	end := start + page.Size()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *fakeItemStore) AllByOwner(_ context.Context, ownerID string) ([]item.Item, error) {
	return s.ownerItems(ownerID), nil
}

func (s *fakeItemStore) ByTag(_ context.Context, ownerID, tagID string) ([]item.Item, error) {
	var out []item.Item
	for _, it := range s.ownerItems(ownerID) {
		for _, id := range it.TagIDs() {
			if id == tagID {
				out = append(out, it)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeItemStore) ByVectorRefs(_ context.Context, refs []string, ownerID string) ([]item.Item, error) {
	if s.byVectorErr != nil {
		return nil, s.byVectorErr
	}
	wanted := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		wanted[ref] = struct{}{}
	}
	var out []item.Item
	for _, it := range s.ownerItems(ownerID) {
		if _, ok := wanted[it.VectorRef()]; ok && it.HasVector() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *fakeItemStore) SetVectorRef(_ context.Context, itemID, vectorRef string) error {
	if s.setRefErr != nil {
		return s.setRefErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return database.ErrNotFound
	}
	s.items[itemID] = it.WithVectorRef(vectorRef)
	return nil
}

func (s *fakeItemStore) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	s.deletedItems = append(s.deletedItems, id)
	return nil
}

func (s *fakeItemStore) TagReferencedByOther(_ context.Context, tagID, excludingItemID string) (bool, error) {
	if s.refSweepErr != nil {
		return false, s.refSweepErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID() == excludingItemID {
			continue
		}
		for _, id := range it.TagIDs() {
			if id == tagID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *fakeItemStore) DistinctTagsForOwner(ctx context.Context, ownerID string) ([]tag.Tag, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, it := range s.ownerItems(ownerID) {
		for _, id := range it.TagIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	tags, err := s.tags.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Title() < tags[j].Title() })
	return tags, nil
}

func (s *fakeItemStore) ownerItems(ownerID string) []item.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []item.Item
	for _, it := range s.items {
		if it.OwnerID() == ownerID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID() > out[j].ID()
	})
	return out
}

type fakeTagStore struct {
	mu sync.Mutex
	// conflictOnce makes the next Create fail with ErrConflict while still
	// registering the "winning" record, mimicking a lost uniqueness race.
	conflictOnce bool
	byID         map[string]tag.Tag
	byTitle      map[string]tag.Tag
	deleted      []string
	createErr    error
	deleteErr    error
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{byID: map[string]tag.Tag{}, byTitle: map[string]tag.Tag{}}
}

func (s *fakeTagStore) ByID(_ context.Context, id string) (tag.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return tag.Tag{}, database.ErrNotFound
	}
	return t, nil
}

func (s *fakeTagStore) ByIDs(_ context.Context, ids []string) ([]tag.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tag.Tag
	for _, id := range ids {
		if t, ok := s.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTagStore) ByTitle(_ context.Context, title string) (tag.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byTitle[title]
	if !ok {
		return tag.Tag{}, database.ErrNotFound
	}
	return t, nil
}

func (s *fakeTagStore) Create(_ context.Context, t tag.Tag) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflictOnce {
		s.conflictOnce = false
		winner := tag.New("winner-"+t.Title(), t.Title())
		s.byID[winner.ID()] = winner
		s.byTitle[winner.Title()] = winner
		return database.ErrConflict
	}
	if _, ok := s.byTitle[t.Title()]; ok {
		return database.ErrConflict
	}
	s.byID[t.ID()] = t
	s.byTitle[t.Title()] = t
	return nil
}

func (s *fakeTagStore) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.byID[id]; ok {
		delete(s.byTitle, t.Title())
		delete(s.byID, id)
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeTagStore) mustAdd(t tag.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[t.ID()] = t
	s.byTitle[t.Title()] = t
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newFakeUserStore(users ...user.User) *fakeUserStore {
	s := &fakeUserStore{users: map[string]user.User{}}
	for _, u := range users {
		s.users[u.ID()] = u
	}
	return s
}

func (s *fakeUserStore) ByID(_ context.Context, id string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, database.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) Create(_ context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID()] = u
	return nil
}

func (s *fakeUserStore) SetShared(_ context.Context, id string, shared bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return database.ErrNotFound
	}
	s.users[id] = user.New(u.ID(), u.Username(), shared)
	return nil
}

type fakeVectorIndex struct {
	mu        sync.Mutex
	entries   map[string]search.Entry
	matches   []search.Match
	upsertErr error
	queryErr  error
	deleteErr error
	deleted   []string
}

func newFakeVectorIndex() *fakeVectorIndex {
	return &fakeVectorIndex{entries: map[string]search.Entry{}}
}

func (s *fakeVectorIndex) Upsert(_ context.Context, entry search.Entry) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID()] = entry
	return nil
}

func (s *fakeVectorIndex) Query(_ context.Context, _ []float64, topK int) ([]search.Match, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if len(s.matches) > topK {
		return s.matches[:topK], nil
	}
	return s.matches, nil
}

func (s *fakeVectorIndex) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeEmbedder struct {
	vector []float64
	err    error
	calls  int
}

func (e *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = e.vector
	}
	return out, nil
}

type fakeSource struct {
	sourceID   string
	resolveErr error
	meta       item.Metadata
	found      bool
	lookupErr  error
}

func (s *fakeSource) Resolve(string) (string, error) {
	if s.resolveErr != nil {
		return "", s.resolveErr
	}
	return s.sourceID, nil
}

func (s *fakeSource) Lookup(context.Context, string) (item.Metadata, bool, error) {
	if s.lookupErr != nil {
		return item.Metadata{}, false, s.lookupErr
	}
	return s.meta, s.found, nil
}
