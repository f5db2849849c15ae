package solve

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"eveanchor/internal/app/objective"
	"eveanchor/internal/domain/harvest"
)

// Signature identifies a request independent of grouping and material order.
func Signature(req Request) string {
	d := xxhash.New()
	write := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.WriteString("\x00")
	}
	write(strconv.FormatFloat(req.Days, 'g', -1, 64))
	for _, g := range objective.Canonical(req.Groupings) {
		write(g.String())
	}
	materials := append([]harvest.Material(nil), req.Materials...)
	sort.Slice(materials, func(i, j int) bool {
		if materials[i].ResourceID != materials[j].ResourceID {
			return materials[i].ResourceID < materials[j].ResourceID
		}
		if materials[i].Quantity != materials[j].Quantity {
			return materials[i].Quantity < materials[j].Quantity
		}
		return materials[i].Valuation < materials[j].Valuation
	})
	for _, m := range materials {
		write(strconv.FormatInt(m.ResourceID, 10))
		write(strconv.FormatInt(m.Quantity, 10))
		write(strconv.FormatFloat(m.Valuation, 'g', -1, 64))
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
