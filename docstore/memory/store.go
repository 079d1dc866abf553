// Package memory provides an in-memory implementation of the Aegis
// document store. It is intended for testing and development.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fincase/aegis/alerttype"
	"github.com/fincase/aegis/id"
	"github.com/fincase/aegis/userperm"
)

// Compile-time interface checks.
var (
	_ userperm.Store  = (*Store)(nil)
	_ alerttype.Store = (*Store)(nil)
)

// Store is a thread-safe in-memory document store. Documents are stored
// as their JSON encoding so that reads return fully detached copies with
// the exact serialization semantics of a real document database.
type Store struct {
	mu sync.RWMutex

	documents  map[string][]byte // userID -> JSON-encoded document
	alertTypes map[string]*alerttype.AlertType
}

// New creates a new in-memory document store.
func New() *Store {
	return &Store{
		documents:  make(map[string][]byte),
		alertTypes: make(map[string]*alerttype.AlertType),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Permission Document Store
// ──────────────────────────────────────────────────

func (s *Store) UpsertDocument(_ context.Context, doc *userperm.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document for user %s: %w", doc.UserID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.UserID] = raw
	return nil
}

func (s *Store) GetDocument(_ context.Context, userID string) (*userperm.Document, error) {
	s.mu.RLock()
	raw, ok := s.documents[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("document for user %s: %w", userID, userperm.ErrNotFound)
	}
	var doc userperm.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document for user %s: %w", userID, err)
	}
	return &doc, nil
}

func (s *Store) DeleteDocument(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, userID)
	return nil
}

// ──────────────────────────────────────────────────
// Alert Type Store
// ──────────────────────────────────────────────────

func (s *Store) CreateAlertType(_ context.Context, at *alerttype.AlertType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertTypes[at.ID.String()] = copyAlertType(at)
	return nil
}

func (s *Store) GetAlertType(_ context.Context, alertTypeID id.AlertTypeID) (*alerttype.AlertType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.alertTypes[alertTypeID.String()]
	if !ok {
		return nil, fmt.Errorf("alert type %s: %w", alertTypeID, alerttype.ErrNotFound)
	}
	return copyAlertType(at), nil
}

func (s *Store) GetAlertTypeByKey(_ context.Context, key string) (*alerttype.AlertType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, at := range s.alertTypes {
		if at.Key == key {
			return copyAlertType(at), nil
		}
	}
	return nil, fmt.Errorf("alert type key %q: %w", key, alerttype.ErrNotFound)
}

func (s *Store) UpdateAlertType(_ context.Context, at *alerttype.AlertType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alertTypes[at.ID.String()]; !ok {
		return fmt.Errorf("alert type %s: %w", at.ID, alerttype.ErrNotFound)
	}
	s.alertTypes[at.ID.String()] = copyAlertType(at)
	return nil
}

func (s *Store) DeleteAlertType(_ context.Context, alertTypeID id.AlertTypeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.alertTypes, alertTypeID.String())
	return nil
}

func (s *Store) ListAlertTypes(_ context.Context, filter *alerttype.ListFilter) ([]*alerttype.AlertType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*alerttype.AlertType, 0, len(s.alertTypes))
	for _, at := range s.alertTypes {
		if filter != nil {
			if filter.Category != "" && at.Category != filter.Category {
				continue
			}
			if filter.IsEnabled != nil && at.IsEnabled != *filter.IsEnabled {
				continue
			}
			if filter.Search != "" && !matchSearch(at.Name, filter.Search) && !matchSearch(at.Key, filter.Search) {
				continue
			}
		}
		result = append(result, copyAlertType(at))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return result[:0], nil
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(result) {
			result = result[:filter.Limit]
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func copyAlertType(at *alerttype.AlertType) *alerttype.AlertType {
	c := *at
	return &c
}

func matchSearch(value, search string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(search))
}
