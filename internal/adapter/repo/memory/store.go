package memory

import (
	"maps"
	"sync"

	"eveanchor/internal/app/ports"
)

// Store backs every in-memory repository. Ids are shared across tables and
// start at 1.
type Store struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	nextID       int64
	alliances    map[int64]ports.AllianceRecord
	corporations map[int64]ports.CorporationRecord
	members      map[int64]ports.MemberRecord
	capsuleers   map[int64]ports.CapsuleerRecord
	outposts     map[int64]ports.OutpostRecord
	problems     map[int64]ports.ProblemRecord
}

func NewStore() *Store {
	return &Store{
		alliances:    make(map[int64]ports.AllianceRecord),
		corporations: make(map[int64]ports.CorporationRecord),
		members:      make(map[int64]ports.MemberRecord),
		capsuleers:   make(map[int64]ports.CapsuleerRecord),
		outposts:     make(map[int64]ports.OutpostRecord),
		problems:     make(map[int64]ports.ProblemRecord),
	}
}

func (s *Store) newID() int64 {
	s.nextID++
	return s.nextID
}

// findByName scans table for name. Callers hold the lock.
func findByName[V any](table map[int64]V, name string, nameOf func(V) string) (V, bool) {
	for _, v := range table {
		if nameOf(v) == name {
			return v, true
		}
	}
	var zero V
	return zero, false
}

type snapshot struct {
	nextID       int64
	alliances    map[int64]ports.AllianceRecord
	corporations map[int64]ports.CorporationRecord
	members      map[int64]ports.MemberRecord
	capsuleers   map[int64]ports.CapsuleerRecord
	outposts     map[int64]ports.OutpostRecord
	problems     map[int64]ports.ProblemRecord
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		nextID:       s.nextID,
		alliances:    maps.Clone(s.alliances),
		corporations: maps.Clone(s.corporations),
		members:      maps.Clone(s.members),
		capsuleers:   maps.Clone(s.capsuleers),
		outposts:     maps.Clone(s.outposts),
		problems:     maps.Clone(s.problems),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.alliances = snap.alliances
	s.corporations = snap.corporations
	s.members = snap.members
	s.capsuleers = snap.capsuleers
	s.outposts = snap.outposts
	s.problems = snap.problems
}
