package objective

import (
	"fmt"

	"eveanchor/internal/domain/harvest"
)

// LocationSource enumerates the planets and yield records under a grouping
// key.
type LocationSource interface {
	LocationsForKey(key string) ([]int64, bool)
	YieldRecordsUnder(key string, locationIDs []int64) []harvest.YieldRecord
}

type nameSuggester interface {
	Suggest(name string) []string
}

// Inputs is everything a harvest problem needs.
type Inputs struct {
	Capacity   harvest.Capacity
	Demand     harvest.Demand
	Values     harvest.ValueTable
	Candidates []harvest.YieldRecord
	Consumers  int
}

// Mapper turns materials and groupings into problem inputs.
type Mapper struct {
	Locations LocationSource
	Tuning    harvest.Tuning
}

func (m Mapper) Map(materials []harvest.Material, groupings []Grouping) (Inputs, error) {
	tuning := m.Tuning
	if tuning.UnitsPerArray == 0 {
		tuning = harvest.DefaultTuning()
	}
	in := Inputs{
		Capacity: harvest.NewCapacity(),
		Demand:   harvest.Demand{},
		Values:   harvest.NewValueTable(),
	}
	in.Capacity.Fallback = tuning.DefaultPlanetLimit

	for _, g := range groupings {
		locations, ok := m.Locations.LocationsForKey(g.Key)
		if !ok {
			err := &UnknownNameError{Kind: "system or constellation", Name: g.Key}
			if s, ok := m.Locations.(nameSuggester); ok {
				err.Suggestions = s.Suggest(g.Key)
			}
			return Inputs{}, err
		}
		in.Capacity.ByKey[g.Key] += tuning.KeyCapacity(g.Count)
		for _, loc := range locations {
			in.Capacity.ByLocation[loc] += tuning.LocationCapacity(g.Count)
		}
		in.Candidates = append(in.Candidates, m.Locations.YieldRecordsUnder(g.Key, locations)...)
		in.Consumers += g.Count
	}

	for _, mat := range materials {
		if mat.Quantity <= 0 {
			return Inputs{}, fmt.Errorf("%s: %w", mat.Name, ErrZeroQuantity)
		}
		if !harvest.IsTradeable(mat.ResourceID) {
			continue
		}
		in.Demand[mat.ResourceID] += float64(mat.Quantity)
		in.Values.Set(mat.ResourceID, mat.UnitValue())
	}
	return in, nil
}
