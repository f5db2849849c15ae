package main

import (
	"strings"

	"eveanchor/internal/app/objective"
)

// groupingsValue collects repeated -C KEY=count flags. A single flag may
// also carry several space separated tokens.
type groupingsValue struct {
	groupings *[]objective.Grouping
}

func (v groupingsValue) String() string {
	if v.groupings == nil {
		return ""
	}
	parts := make([]string, len(*v.groupings))
	for i, g := range *v.groupings {
		parts[i] = g.String()
	}
	return strings.Join(parts, " ")
}

func (v groupingsValue) Set(s string) error {
	gs, err := objective.ParseGroupings(s)
	if err != nil {
		return err
	}
	*v.groupings = append(*v.groupings, gs...)
	return nil
}

func (v groupingsValue) Type() string { return "KEY=count" }
