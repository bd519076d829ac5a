package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/shopkeep/internal/catalog"
)

// Snapshot represents the catalog as last known to this session.
type Snapshot struct {
	Products            []catalog.Product
	Unsynced            map[catalog.ID]bool
	Loaded              bool
	LastLoaded          time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed loads
}

// IsOffline returns true when the API has been unreachable for multiple loads.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// IsUnsynced reports whether the product was only changed locally.
func (s Snapshot) IsUnsynced(id catalog.ID) bool {
	return s.Unsynced[id]
}

// Store coordinates concurrent access to the session catalog.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Load replaces the catalog after a fetch. A failed fetch leaves the session
// with an empty catalog and records the error for visibility.
func (s *Store) Load(products []catalog.Product, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Unsynced = nil
	s.snapshot.LastLoaded = time.Now()
	s.snapshot.Loaded = true
	if err != nil {
		s.snapshot.Products = nil
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.Products = cloneProducts(products)
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Upsert replaces the product with the same id, or inserts it at the front
// when no such product exists. The product is marked as synced.
func (s *Store) Upsert(p catalog.Product) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markSynced(p.ID)
	if idx := s.indexOf(p.ID); idx >= 0 {
		s.snapshot.Products[idx] = p.Clone()
		return true
	}
	s.snapshot.Products = append([]catalog.Product{p.Clone()}, s.snapshot.Products...)
	return false
}

// UpsertAt replaces the product stored under id with p, or inserts p at the
// front. It covers servers that answer an update with a different id shape.
// Any other record already holding p's id is dropped so ids stay unique.
func (s *Store) UpsertAt(id catalog.ID, p catalog.Product) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markSynced(id)
	s.markSynced(p.ID)
	idx := s.indexOf(id)
	if idx < 0 {
		idx = s.indexOf(p.ID)
	}
	if idx < 0 {
		s.snapshot.Products = append([]catalog.Product{p.Clone()}, s.snapshot.Products...)
		return false
	}

	s.snapshot.Products[idx] = p.Clone()
	if p.ID != "" {
		kept := s.snapshot.Products[:0]
		for i, existing := range s.snapshot.Products {
			if i != idx && existing.ID == p.ID {
				continue
			}
			kept = append(kept, existing)
		}
		s.snapshot.Products = kept
	}
	return true
}

// ReplaceExisting replaces the product with the same id and reports whether
// one was found. Nothing is inserted.
func (s *Store) ReplaceExisting(p catalog.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(p.ID)
	if idx < 0 {
		return false
	}
	s.markSynced(p.ID)
	s.snapshot.Products[idx] = p.Clone()
	return true
}

// Overlay applies a degraded update: the payload fields are written onto the
// local product and the product is marked unsynced. It reports false when
// the id is unknown.
func (s *Store) Overlay(id catalog.ID, payload catalog.Payload) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return catalog.Product{}, false
	}
	updated := s.snapshot.Products[idx].WithPayload(payload)
	s.snapshot.Products[idx] = updated
	if s.snapshot.Unsynced == nil {
		s.snapshot.Unsynced = make(map[catalog.ID]bool)
	}
	s.snapshot.Unsynced[id] = true
	return updated.Clone(), true
}

// Find returns the product with the given id.
func (s *Store) Find(id catalog.ID) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.snapshot.Products[idx].Clone(), true
	}
	return catalog.Product{}, false
}

// FindByTitle returns the first product whose trimmed title matches title
// case-insensitively.
func (s *Store) FindByTitle(title string) (catalog.Product, bool) {
	want := strings.ToLower(strings.TrimSpace(title))

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.snapshot.Products {
		if strings.ToLower(strings.TrimSpace(p.Title)) == want {
			return p.Clone(), true
		}
	}
	return catalog.Product{}, false
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Products = cloneProducts(s.snapshot.Products)
	snap.Unsynced = cloneFlags(s.snapshot.Unsynced)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Len returns the number of products held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot.Products)
}

func (s *Store) indexOf(id catalog.ID) int {
	if id == "" {
		return -1
	}
	for i, p := range s.snapshot.Products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) markSynced(id catalog.ID) {
	delete(s.snapshot.Unsynced, id)
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Product, len(items))
	for i, p := range items {
		dup[i] = p.Clone()
	}
	return dup
}

func cloneFlags(flags map[catalog.ID]bool) map[catalog.ID]bool {
	if len(flags) == 0 {
		return nil
	}
	dup := make(map[catalog.ID]bool, len(flags))
	for k, v := range flags {
		dup[k] = v
	}
	return dup
}
