package solve

import (
	"strings"

	"eveanchor/internal/app/objective"
)

// FromText builds a request from a grouping line and an exported requirement
// list. An empty requirement list means no minimum output.
func FromText(items objective.ItemResolver, days float64, groupings, requirements string) (Request, error) {
	gs, err := objective.ParseGroupings(groupings)
	if err != nil {
		return Request{}, err
	}
	req := Request{Days: days, Groupings: gs}
	if strings.TrimSpace(requirements) == "" {
		return req, nil
	}
	req.Materials, err = objective.ParseRequirements(requirements, items)
	if err != nil {
		return Request{}, err
	}
	return req, nil
}
