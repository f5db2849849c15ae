package objective

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Grouping is a caller-chosen key and the number of outposts deployed
// under it.
type Grouping struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

func (g Grouping) String() string {
	return fmt.Sprintf("%s=%d", g.Key, g.Count)
}

// ParseGroupings reads whitespace-separated KEY=count tokens such as
// "Tanoo=1 San_Matar=2".
func ParseGroupings(text string) ([]Grouping, error) {
	var out []Grouping
	for _, token := range strings.Fields(text) {
		g, err := ParseGrouping(token)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func ParseGrouping(token string) (Grouping, error) {
	pos := strings.Index(token, "=")
	if pos < 0 {
		return Grouping{}, &ParseError{Input: token, Msg: "invalid KEY=value: no `=` found"}
	}
	key := strings.TrimSpace(token[:pos])
	if key == "" {
		return Grouping{}, &ParseError{Input: token, Msg: "invalid KEY=value: empty key"}
	}
	count, err := strconv.Atoi(strings.TrimSpace(token[pos+1:]))
	if err != nil || count < 0 {
		return Grouping{}, &ParseError{Input: token, Msg: "invalid KEY=value: count must be a non-negative integer"}
	}
	return Grouping{Key: key, Count: count}, nil
}

// Consumers is the total number of outposts across groupings.
func Consumers(groupings []Grouping) int {
	n := 0
	for _, g := range groupings {
		n += g.Count
	}
	return n
}

// Canonical returns the groupings sorted by key with duplicate keys summed.
func Canonical(groupings []Grouping) []Grouping {
	sums := map[string]int{}
	for _, g := range groupings {
		sums[g.Key] += g.Count
	}
	out := make([]Grouping, 0, len(sums))
	for k, n := range sums {
		out = append(out, Grouping{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
