// Package report renders solve results, requirement lists and outpost books
// as chat-sized text tables.
package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/domain/manager"
)

// DefaultBudget is the rune limit of a chat message body.
const DefaultBudget = 1999

const fence = "```"

type NameResolver interface {
	CelestialLabel(locationID int64) string
	ItemName(id int64) string
}

// Row is one line of a solution table.
type Row struct {
	Celestial string  `json:"celestial"`
	Resource  string  `json:"resource"`
	Arrays    float64 `json:"arrays"`
}

// SolutionRows keeps allocations that are non-zero at two decimals and, when
// key is not empty, belong to that grouping key. Rows are sorted by
// celestial, resource and arrays.
func SolutionRows(allocs []harvest.Allocation, names NameResolver, key string) []Row {
	rows := make([]Row, 0, len(allocs))
	for _, a := range allocs {
		arrays := round2(a.Arrays)
		if arrays == 0 {
			continue
		}
		if key != "" && a.Record.Key != key {
			continue
		}
		rows = append(rows, Row{
			Celestial: names.CelestialLabel(a.Record.LocationID),
			Resource:  names.ItemName(a.Record.ResourceID),
			Arrays:    arrays,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Celestial != rows[j].Celestial {
			return rows[i].Celestial < rows[j].Celestial
		}
		if rows[i].Resource != rows[j].Resource {
			return rows[i].Resource < rows[j].Resource
		}
		return rows[i].Arrays < rows[j].Arrays
	})
	return rows
}

func SolutionTable(rows []Row, budget int) string {
	body := render([]string{"Celestial", "Resource", "Arrays"}, len(rows), func(i int) []string {
		r := rows[i]
		return []string{r.Celestial, r.Resource, strconv.FormatFloat(r.Arrays, 'f', 2, 64)}
	})
	return Fence(body, budget)
}

func MaterialTable(materials []harvest.Material, budget int) string {
	body := render([]string{"Name", "Quantity", "Valuation"}, len(materials), func(i int) []string {
		m := materials[i]
		return []string{m.Name, FormatValue(float64(m.Quantity)), FormatValue(m.Valuation)}
	})
	return Fence(body, budget)
}

// OutpostTable lists outposts sorted by system.
func OutpostTable(outposts []manager.Outpost, budget int) string {
	sorted := append([]manager.Outpost(nil), outposts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].System < sorted[j].System })
	body := render([]string{"Outpost", "Capsuleer", "System", "Planets", "Arrays"}, len(sorted), func(i int) []string {
		o := sorted[i]
		return []string{o.Name, o.Capsuleer, o.System, strconv.Itoa(o.Planets), strconv.Itoa(o.Arrays)}
	})
	return Fence(body, budget)
}

func render(header []string, n int, row func(i int) []string) string {
	var b strings.Builder
	table := tablewriter.NewTable(&b, tablewriter.WithHeader(header))
	for i := 0; i < n; i++ {
		_ = table.Append(row(i))
	}
	_ = table.Render()
	return strings.TrimRight(b.String(), "\n")
}

// Fence truncates body to budget runes and wraps it in a code block. A
// budget of zero or less means DefaultBudget.
func Fence(body string, budget int) string {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if r := []rune(body); len(r) > budget {
		body = string(r[:budget])
	}
	return fence + "\n" + body + "\n" + fence
}

// FormatValue abbreviates large numbers with K, M or B and three decimals.
func FormatValue(v float64) string {
	const (
		billion  = 1_000_000_000.0
		million  = 1_000_000.0
		thousand = 1_000.0
	)
	switch {
	case v >= billion:
		return fmt.Sprintf("%.3fB", v/billion)
	case v >= million:
		return fmt.Sprintf("%.3fM", v/million)
	case v >= thousand:
		return fmt.Sprintf("%.3fK", v/thousand)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
