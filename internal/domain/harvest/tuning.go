package harvest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the capacity and fuel constants. DefaultTuning matches the
// in-game values.
type Tuning struct {
	ArraysPerLocation  int     `yaml:"arrays_per_location"`
	UnitsPerArray      int     `yaml:"units_per_array"`
	DefaultPlanetLimit int     `yaml:"default_planet_limit"`
	DefaultDays        float64 `yaml:"default_days"`
	SolverTolerance    float64 `yaml:"solver_tolerance"`

	Fuel Fuel `yaml:"fuel"`
}

type Fuel struct {
	Enabled        bool    `yaml:"enabled"`
	ResourceID     int64   `yaml:"resource_id"`
	EnergyPerUnit  float64 `yaml:"energy_per_unit"`
	EnergyRequired float64 `yaml:"energy_required"`
}

func DefaultTuning() Tuning {
	return Tuning{
		ArraysPerLocation:  ArraysPerLocation,
		UnitsPerArray:      UnitsPerArray,
		DefaultPlanetLimit: DefaultPlanetLimit,
		DefaultDays:        7,
		SolverTolerance:    1e-9,
		Fuel: Fuel{
			Enabled:        true,
			ResourceID:     LiquidOzoneFuelID,
			EnergyPerUnit:  FuelEnergyPerUnit,
			EnergyRequired: FuelEnergyPerOutpost,
		},
	}
}

// LoadTuning overlays the yaml file at path on DefaultTuning. Keys missing
// from the file keep their default.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.ArraysPerLocation <= 0 || t.UnitsPerArray <= 0 {
		return fmt.Errorf("arrays_per_location and units_per_array must be positive")
	}
	if t.DefaultPlanetLimit < 0 {
		return fmt.Errorf("default_planet_limit must not be negative")
	}
	if t.DefaultDays <= 0 {
		return ErrInvalidDays
	}
	if t.Fuel.Enabled && t.Fuel.EnergyPerUnit <= 0 {
		return ErrInvalidFuelConfig
	}
	return nil
}

// KeyCapacity is the number of arrays count outposts can deploy.
func (t Tuning) KeyCapacity(count int) int {
	return count * t.ArraysPerLocation * t.UnitsPerArray
}

// LocationCapacity is the per-planet array budget for count outposts.
func (t Tuning) LocationCapacity(count int) int {
	return count * t.UnitsPerArray
}
