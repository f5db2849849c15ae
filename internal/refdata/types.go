package refdata

// Names holds the localised names shipped with every table.
type Names struct {
	ZhName   string `json:"zh_name,omitempty"`
	EnName   string `json:"en_name,omitempty"`
	DeName   string `json:"de_name,omitempty"`
	FrName   string `json:"fr_name,omitempty"`
	JaName   string `json:"ja_name,omitempty"`
	PorName  string `json:"por_name,omitempty"`
	RuName   string `json:"ru_name,omitempty"`
	SpaName  string `json:"spa_name,omitempty"`
	ZhcnName string `json:"zhcn_name,omitempty"`
	KrName   string `json:"kr_name,omitempty"`
}

type Item struct {
	Names
}

type System struct {
	Names
	ConstellationID int64 `json:"constellation"`
}

type Constellation struct {
	Names
}

type Celestial struct {
	ConstellationID int64 `json:"constellation_id"`
	RegionID        int64 `json:"region_id"`
	SolarSystemID   int64 `json:"solar_system_id"`
	CelestialIndex  int64 `json:"celestial_index"`
}

type Resource struct {
	InitOutput     float64 `json:"init_output"`
	LocationIndex  int64   `json:"location_index"`
	ResourceTypeID int64   `json:"resource_type_id"`
	RichnessIndex  int     `json:"richness_index"`
	RichnessValue  int     `json:"richness_value"`
}

type Planet struct {
	PlanetID     int64              `json:"planet_id"`
	ResourceInfo map[int64]Resource `json:"resource_info"`
}

// Tables is the raw content of the five data files, keyed by id.
type Tables struct {
	Items          map[int64]Item
	Systems        map[int64]System
	Constellations map[int64]Constellation
	Celestials     map[int64]Celestial
	Planets        map[int64]Planet
}
