package routedecor

import (
	"sync"
)

// RouteMetadata is what one annotation records for one action.
type RouteMetadata struct {
	Method      HTTPMethod
	Path        string
	Middlewares []MiddlewareFunc
}

// MetadataEntry pairs an action name with its metadata
type MetadataEntry struct {
	Action   string
	Metadata RouteMetadata
}

type metadataTable struct {
	order   []string
	entries map[string]RouteMetadata
}

// MetadataStore is a side table from target identity to the ordered route
// metadata of its actions. User values are never mutated.
type MetadataStore struct {
	mu     sync.RWMutex
	tables map[any]*metadataTable
}

// NewMetadataStore creates an empty store
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{tables: make(map[any]*metadataTable)}
}

// DefaultMetadataStore is the process-wide store used by controller builders
var DefaultMetadataStore = NewMetadataStore()

// Set records metadata for action on target. Re-annotating an action replaces
// its entry and keeps its original position.
func (s *MetadataStore) Set(target Target, action string, meta RouteMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[target.identity()]
	if !ok {
		table = &metadataTable{entries: make(map[string]RouteMetadata)}
		s.tables[target.identity()] = table
	}
	if _, exists := table.entries[action]; !exists {
		table.order = append(table.order, action)
	}
	table.entries[action] = meta
}

// Entries returns the target's metadata in insertion order. Nil when the
// target was never annotated.
func (s *MetadataStore) Entries(target Target) []MetadataEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.tables[target.identity()]
	if !ok {
		return nil
	}
	result := make([]MetadataEntry, 0, len(table.order))
	for _, action := range table.order {
		result = append(result, MetadataEntry{Action: action, Metadata: table.entries[action]})
	}
	return result
}

// Forget drops everything recorded for target
func (s *MetadataStore) Forget(target Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, target.identity())
}
