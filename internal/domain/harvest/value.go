package harvest

import "sort"

// ResourceKind is a tradeable planetary resource type id.
type ResourceKind int64

const (
	LusteringAlloy       ResourceKind = 42001000000
	SheenCompound        ResourceKind = 42001000001
	GleamingAlloy        ResourceKind = 42001000002
	CondensedAlloy       ResourceKind = 42001000003
	PreciousAlloy        ResourceKind = 42001000004
	MotleyCompound       ResourceKind = 42001000005
	FiberComposite       ResourceKind = 42001000006
	LucentCompound       ResourceKind = 42001000007
	OpulentCompound      ResourceKind = 42001000008
	GlossyCompound       ResourceKind = 42001000009
	CrystalCompound      ResourceKind = 42001000010
	DarkCompound         ResourceKind = 42001000011
	HeavyWater           ResourceKind = 42002000012
	SuspendedPlasma      ResourceKind = 42002000013
	LiquidOzone          ResourceKind = 42002000014
	IonicSolutions       ResourceKind = 42002000015
	OxygenIsotopes       ResourceKind = 42002000016
	Plasmoids            ResourceKind = 42002000017
	ReactiveGas          ResourceKind = 42001000018
	NobleGas             ResourceKind = 42001000019
	BaseMetals           ResourceKind = 42001000020
	HeavyMetals          ResourceKind = 42001000021
	NobleMetals          ResourceKind = 42001000022
	ReactiveMetals       ResourceKind = 42001000023
	ToxicMetals          ResourceKind = 42001000024
	IndustrialFibers     ResourceKind = 42001000025
	SupertensilePlastics ResourceKind = 42001000026
	Polyaramids          ResourceKind = 42001000027
	Coolant              ResourceKind = 42001000028
	Condensates          ResourceKind = 42001000029
	ConstructionBlocks   ResourceKind = 42001000030
	Nanites              ResourceKind = 42001000031
	SilicateGlass        ResourceKind = 42001000032
	SmartfabUnits        ResourceKind = 42001000033
)

var resourceNames = map[ResourceKind]string{
	LusteringAlloy:       "Lustering Alloy",
	SheenCompound:        "Sheen Compound",
	GleamingAlloy:        "Gleaming Alloy",
	CondensedAlloy:       "Condensed Alloy",
	PreciousAlloy:        "Precious Alloy",
	MotleyCompound:       "Motley Compound",
	FiberComposite:       "Fiber Composite",
	LucentCompound:       "Lucent Compound",
	OpulentCompound:      "Opulent Compound",
	GlossyCompound:       "Glossy Compound",
	CrystalCompound:      "Crystal Compound",
	DarkCompound:         "Dark Compound",
	HeavyWater:           "Heavy Water",
	SuspendedPlasma:      "Suspended Plasma",
	LiquidOzone:          "Liquid Ozone",
	IonicSolutions:       "Ionic Solutions",
	OxygenIsotopes:       "Oxygen Isotopes",
	Plasmoids:            "Plasmoids",
	ReactiveGas:          "Reactive Gas",
	NobleGas:             "Noble Gas",
	BaseMetals:           "Base Metals",
	HeavyMetals:          "Heavy Metals",
	NobleMetals:          "Noble Metals",
	ReactiveMetals:       "Reactive Metals",
	ToxicMetals:          "Toxic Metals",
	IndustrialFibers:     "Industrial Fibers",
	SupertensilePlastics: "Supertensile Plastics",
	Polyaramids:          "Polyaramids",
	Coolant:              "Coolant",
	Condensates:          "Condensates",
	ConstructionBlocks:   "Construction Blocks",
	Nanites:              "Nanites",
	SilicateGlass:        "Silicate Glass",
	SmartfabUnits:        "Smartfab Units",
}

// IsTradeable reports whether id is part of the value enumeration.
func IsTradeable(id int64) bool {
	_, ok := resourceNames[ResourceKind(id)]
	return ok
}

func ResourceName(id int64) (string, bool) {
	name, ok := resourceNames[ResourceKind(id)]
	return name, ok
}

// TradeableKinds returns the enumeration in ascending id order.
func TradeableKinds() []ResourceKind {
	out := make([]ResourceKind, 0, len(resourceNames))
	for k := range resourceNames {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ValueTable maps each tradeable kind to an ISK value per unit. Kinds without
// an entry are worth zero.
type ValueTable struct {
	values map[ResourceKind]float64
}

func NewValueTable() ValueTable {
	return ValueTable{values: map[ResourceKind]float64{}}
}

// Set records a per-unit value and reports whether id is tradeable. Values
// for other ids are dropped.
func (t *ValueTable) Set(id int64, perUnit float64) bool {
	if !IsTradeable(id) {
		return false
	}
	if t.values == nil {
		t.values = map[ResourceKind]float64{}
	}
	t.values[ResourceKind(id)] = perUnit
	return true
}

func (t ValueTable) ValueOf(id int64) (float64, error) {
	if !IsTradeable(id) {
		return 0, &UnmappedResourceError{ResourceID: id}
	}
	return t.values[ResourceKind(id)], nil
}

func (t ValueTable) Len() int { return len(t.values) }
