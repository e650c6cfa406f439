package lineup

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danieljhkim/festie/internal/clock"
	"github.com/danieljhkim/festie/internal/kv"
)

// Storage keys, shared with the browser build's localStorage layout.
const (
	CatalogKey   = "artists"
	FavoritesKey = "favorites"
)

// Placeholder metadata for performances created from an uploaded image.
const (
	UploadName  = "Custom Artist"
	UploadGenre = "Various"
)

// Store holds the authoritative catalog and favorite set.
//
// In-memory state is authoritative for the session: when a write to the
// backing kv.Store fails the mutation is kept and the error is returned.
// Mutations persist while holding the lock, so storage sees them in the
// order they were applied.
type Store struct {
	mu        sync.RWMutex
	kv        kv.Store
	ids       *clock.IDSource
	logger    *slog.Logger
	catalog   []Performance
	favorites *FavoriteSet
}

// NewStore creates a Store backed by store. It starts with the seed catalog
// and no favorites; call Load to read persisted state.
func NewStore(store kv.Store, ids *clock.IDSource, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:        store,
		ids:       ids,
		logger:    logger,
		catalog:   Seed(),
		favorites: NewFavoriteSet(nil),
	}
}

// Load replaces in-memory state with the persisted catalog and favorites.
func (s *Store) Load() {
	catalog := s.LoadCatalog()
	favorites := s.LoadFavorites()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog
	s.favorites = NewFavoriteSet(favorites)
}

// LoadCatalog returns the persisted catalog, or the seed catalog when nothing
// usable is stored. It never fails.
func (s *Store) LoadCatalog() []Performance {
	var catalog []Performance
	if !s.read(CatalogKey, &catalog) || catalog == nil {
		return Seed()
	}
	return catalog
}

// LoadFavorites returns the persisted favorite ids, or an empty list.
func (s *Store) LoadFavorites() []int64 {
	var ids []int64
	if !s.read(FavoritesKey, &ids) || ids == nil {
		return []int64{}
	}
	return NewFavoriteSet(ids).IDs()
}

// read decodes the value under key into v. Missing or unreadable data is
// logged and reported as false.
func (s *Store) read(key string, v any) bool {
	data, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Warn("failed to read persisted state, using defaults", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("persisted state is corrupt, using defaults", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.kv.Set(key, data); err != nil {
		s.logger.Error("failed to persist state", "key", key, "error", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	s.logger.Debug("persisted state", "key", key, "bytes", len(data))
	return nil
}

// Catalog returns a copy of the current catalog.
func (s *Store) Catalog() []Performance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Performance{}, s.catalog...)
}

// Favorites returns the favorite ids in insertion order.
func (s *Store) Favorites() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.IDs()
}

// IsFavorite reports whether id is favorited.
func (s *Store) IsFavorite(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.Contains(id)
}

// Lookup returns the performance with the given id.
func (s *Store) Lookup(id int64) (Performance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Performance{}, false
}

// FavoritePerformances resolves the favorite set against the catalog, in
// catalog order. Ids with no matching performance are skipped.
func (s *Store) FavoritePerformances() []Performance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Performance, 0, s.favorites.Len())
	for _, p := range s.catalog {
		if s.favorites.Contains(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// Search returns the catalog entries whose name contains term (case-insensitive).
// An empty term returns the whole catalog.
func (s *Store) Search(term string) []Performance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Performance, 0, len(s.catalog))
	for _, p := range s.catalog {
		if term == "" || p.matches(term) {
			out = append(out, p)
		}
	}
	return out
}

// ToggleFavorite adds id to the favorites if absent, removes it otherwise, and
// persists the result. Any id is accepted, including ones not in the catalog.
func (s *Store) ToggleFavorite(id int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites.Toggle(id)
	ids := s.favorites.IDs()

	return ids, s.write(FavoritesKey, ids)
}

// PrependPerformances inserts items at the front of the catalog and persists
// it. Items without an id get a fresh one. Names are not deduplicated.
func (s *Store) PrependPerformances(items []Performance) ([]Performance, error) {
	missing := 0
	for _, p := range items {
		if p.ID == 0 {
			missing++
		}
	}
	ids := s.ids.NextN(missing)

	fresh := make([]Performance, len(items))
	for i, p := range items {
		if p.ID == 0 {
			p.ID, ids = ids[0], ids[1:]
		}
		fresh[i] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	catalog := make([]Performance, 0, len(fresh)+len(s.catalog))
	catalog = append(catalog, fresh...)
	catalog = append(catalog, s.catalog...)
	s.catalog = catalog
	out := append([]Performance{}, catalog...)

	return out, s.write(CatalogKey, out)
}

// AddPerformanceFromUpload creates a placeholder performance for an uploaded
// image and prepends it to the catalog.
func (s *Store) AddPerformanceFromUpload(image string) ([]Performance, error) {
	p := Performance{
		ID:    s.ids.Next(),
		Name:  UploadName,
		Genre: UploadGenre,
		Image: image,
	}
	return s.PrependPerformances([]Performance{p})
}
