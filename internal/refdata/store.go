package refdata

import (
	"fmt"
	"sort"
	"strings"

	"eveanchor/internal/domain/harvest"
)

// Store indexes the reference tables. It is read-only after New and safe
// for concurrent use.
type Store struct {
	t      Tables
	digest string

	itemByName          map[string]int64
	systemByName        map[string]int64
	constellationByName map[string]int64

	planetsByConstellation map[int64][]int64
	systemsByConstellation map[int64][]int64
}

func New(t Tables) *Store {
	if t.Items == nil {
		t.Items = map[int64]Item{}
	}
	if t.Systems == nil {
		t.Systems = map[int64]System{}
	}
	if t.Constellations == nil {
		t.Constellations = map[int64]Constellation{}
	}
	if t.Celestials == nil {
		t.Celestials = map[int64]Celestial{}
	}
	if t.Planets == nil {
		t.Planets = map[int64]Planet{}
	}
	s := &Store{
		t:                      t,
		itemByName:             map[string]int64{},
		systemByName:           map[string]int64{},
		constellationByName:    map[string]int64{},
		planetsByConstellation: map[int64][]int64{},
		systemsByConstellation: map[int64][]int64{},
	}
	indexNames(s.itemByName, t.Items, func(v Item) string { return v.EnName })
	indexNames(s.systemByName, t.Systems, func(v System) string { return v.EnName })
	indexNames(s.constellationByName, t.Constellations, func(v Constellation) string { return v.EnName })

	for id, sys := range t.Systems {
		s.systemsByConstellation[sys.ConstellationID] = append(s.systemsByConstellation[sys.ConstellationID], id)
	}
	for id, c := range t.Celestials {
		if _, ok := t.Planets[id]; !ok {
			continue
		}
		s.planetsByConstellation[c.ConstellationID] = append(s.planetsByConstellation[c.ConstellationID], id)
	}
	for _, ids := range s.planetsByConstellation {
		sortIDs(ids)
	}
	for _, ids := range s.systemsByConstellation {
		sortIDs(ids)
	}
	return s
}

// indexNames keeps the lowest id when two records share a name.
func indexNames[V any](index map[string]int64, table map[int64]V, name func(V) string) {
	for id, v := range table {
		key := normalize(name(v))
		if key == "" {
			continue
		}
		if prev, ok := index[key]; ok && prev < id {
			continue
		}
		index[key] = id
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// Digest is the sha256 of the raw files, or empty for stores built with New.
func (s *Store) Digest() string { return s.digest }

func (s *Store) Item(id int64) (Item, bool) {
	v, ok := s.t.Items[id]
	return v, ok
}

func (s *Store) System(id int64) (System, bool) {
	v, ok := s.t.Systems[id]
	return v, ok
}

func (s *Store) Constellation(id int64) (Constellation, bool) {
	v, ok := s.t.Constellations[id]
	return v, ok
}

func (s *Store) Celestial(id int64) (Celestial, bool) {
	v, ok := s.t.Celestials[id]
	return v, ok
}

func (s *Store) Planet(id int64) (Planet, bool) {
	v, ok := s.t.Planets[id]
	return v, ok
}

func (s *Store) ItemIDByName(name string) (int64, bool) {
	id, ok := s.itemByName[normalize(name)]
	return id, ok
}

func (s *Store) SystemIDByName(name string) (int64, bool) {
	id, ok := s.systemByName[normalize(name)]
	return id, ok
}

func (s *Store) ConstellationIDByName(name string) (int64, bool) {
	id, ok := s.constellationByName[normalize(name)]
	return id, ok
}

// ItemName is the English item name, or the id when the item is unknown.
func (s *Store) ItemName(id int64) string {
	if it, ok := s.t.Items[id]; ok && it.EnName != "" {
		return it.EnName
	}
	if name, ok := harvest.ResourceName(id); ok {
		return name
	}
	return fmt.Sprint(id)
}

func (s *Store) SystemName(id int64) string {
	if sys, ok := s.t.Systems[id]; ok && sys.EnName != "" {
		return sys.EnName
	}
	return fmt.Sprint(id)
}

// ResolveKey maps a grouping key to a constellation. Keys name either a
// constellation or a system inside one; underscores stand for spaces.
func (s *Store) ResolveKey(key string) (int64, bool) {
	name := strings.ReplaceAll(key, "_", " ")
	if id, ok := s.ConstellationIDByName(name); ok {
		return id, true
	}
	sysID, ok := s.SystemIDByName(name)
	if !ok {
		return 0, false
	}
	if sys := s.t.Systems[sysID]; sys.ConstellationID != 0 {
		return sys.ConstellationID, true
	}
	for _, c := range s.t.Celestials {
		if c.SolarSystemID == sysID {
			return c.ConstellationID, true
		}
	}
	return 0, false
}

// LocationsForKey lists the planets with harvestable resources under key,
// in ascending id order.
func (s *Store) LocationsForKey(key string) ([]int64, bool) {
	constellationID, ok := s.ResolveKey(key)
	if !ok {
		return nil, false
	}
	ids := s.planetsByConstellation[constellationID]
	return append([]int64(nil), ids...), true
}

// YieldRecordsUnder enumerates the yield records of the given planets,
// ordered by planet then resource type.
func (s *Store) YieldRecordsUnder(key string, locationIDs []int64) []harvest.YieldRecord {
	ids := append([]int64(nil), locationIDs...)
	sortIDs(ids)
	var out []harvest.YieldRecord
	for _, id := range ids {
		planet, ok := s.t.Planets[id]
		if !ok {
			continue
		}
		start := len(out)
		for _, r := range planet.ResourceInfo {
			out = append(out, harvest.YieldRecord{
				Key:           key,
				LocationID:    id,
				ResourceID:    r.ResourceTypeID,
				OutputRate:    r.InitOutput,
				RichnessIndex: r.RichnessIndex,
				RichnessValue: r.RichnessValue,
			})
		}
		batch := out[start:]
		sort.Slice(batch, func(i, j int) bool { return batch[i].ResourceID < batch[j].ResourceID })
	}
	return out
}

// ConstellationOf returns the constellation that contains a celestial.
func (s *Store) ConstellationOf(locationID int64) (int64, bool) {
	c, ok := s.t.Celestials[locationID]
	if !ok {
		return 0, false
	}
	return c.ConstellationID, true
}

// CelestialLabel renders a planet as "<system> <index>", e.g. "Tanoo 2".
func (s *Store) CelestialLabel(locationID int64) string {
	c, ok := s.t.Celestials[locationID]
	if !ok {
		return fmt.Sprint(locationID)
	}
	return fmt.Sprintf("%s %d", s.SystemName(c.SolarSystemID), c.CelestialIndex)
}

// PlanetsInSystem counts the planets of a system that have resources.
func (s *Store) PlanetsInSystem(systemID int64) int {
	n := 0
	for id, c := range s.t.Celestials {
		if c.SolarSystemID != systemID {
			continue
		}
		if _, ok := s.t.Planets[id]; ok {
			n++
		}
	}
	return n
}

type Stats struct {
	Items          int `json:"items"`
	Systems        int `json:"systems"`
	Constellations int `json:"constellations"`
	Celestials     int `json:"celestials"`
	Planets        int `json:"planets"`
}

func (s *Store) Stats() Stats {
	return Stats{
		Items:          len(s.t.Items),
		Systems:        len(s.t.Systems),
		Constellations: len(s.t.Constellations),
		Celestials:     len(s.t.Celestials),
		Planets:        len(s.t.Planets),
	}
}
