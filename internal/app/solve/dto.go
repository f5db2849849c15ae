package solve

import (
	"eveanchor/internal/app/objective"
	"eveanchor/internal/domain/harvest"
)

type Request struct {
	Days      float64
	Groupings []objective.Grouping
	Materials []harvest.Material
}

type Response struct {
	RequestID   string               `json:"request_id"`
	Signature   string               `json:"signature"`
	Allocations []harvest.Allocation `json:"allocations"`
	Objective   float64              `json:"objective"`
	Cached      bool                 `json:"cached"`
	// Values are the per-unit valuations the objective was built from.
	Values harvest.ValueTable `json:"-"`
}
