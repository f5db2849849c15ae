package harvest

const (
	ArraysPerLocation  = 12
	UnitsPerArray      = 22
	DefaultPlanetLimit = 22
	HoursPerDay        = 24

	LiquidOzoneFuelID    = int64(LiquidOzone)
	FuelEnergyPerUnit    = 13.0
	FuelEnergyPerOutpost = 18000.0
)

// Material is one line of an exported requirement list.
type Material struct {
	ResourceID int64   `json:"resource_id"`
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	Valuation  float64 `json:"valuation"`
}

// UnitValue is the ISK value of a single unit.
func (m Material) UnitValue() float64 {
	if m.Quantity == 0 {
		return 0
	}
	return m.Valuation / float64(m.Quantity)
}

// YieldRecord is one harvestable (planet, resource) pair.
type YieldRecord struct {
	Key           string  `json:"key"`
	LocationID    int64   `json:"location_id"`
	ResourceID    int64   `json:"resource_id"`
	OutputRate    float64 `json:"output_rate"`
	RichnessIndex int     `json:"richness_index"`
	RichnessValue int     `json:"richness_value"`
}

type Allocation struct {
	Record YieldRecord `json:"record"`
	Arrays float64     `json:"arrays"`
}

type Capacity struct {
	ByKey      map[string]int
	ByLocation map[int64]int
	// Fallback bounds locations missing from ByLocation. Zero means
	// DefaultPlanetLimit.
	Fallback int
}

func NewCapacity() Capacity {
	return Capacity{ByKey: map[string]int{}, ByLocation: map[int64]int{}}
}

func (c Capacity) Total() int {
	total := 0
	for _, n := range c.ByKey {
		total += n
	}
	return total
}

// PlanetLimit is the variable upper bound for a location.
func (c Capacity) PlanetLimit(locationID int64) int {
	if n, ok := c.ByLocation[locationID]; ok {
		return n
	}
	if c.Fallback > 0 {
		return c.Fallback
	}
	return DefaultPlanetLimit
}

// Demand is the minimum output per resource type id.
type Demand map[int64]float64

func (d Demand) Clone() Demand {
	out := make(Demand, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
