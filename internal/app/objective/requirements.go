package objective

import (
	"strconv"
	"strings"

	"eveanchor/internal/domain/harvest"
)

// RequirementHeader is the first line of a decomposed material list exported
// from the game. The trailing space is part of the export.
const RequirementHeader = "ID\tNames\tQuantity\tValuation "

type ItemResolver interface {
	ItemIDByName(name string) (int64, bool)
}

type itemSuggester interface {
	SuggestItem(name string) []string
}

// ParseRequirements reads an exported requirement list. Rows with fewer than
// four tab-separated fields are skipped; any other malformed row fails the
// whole list.
func ParseRequirements(text string, items ItemResolver) ([]harvest.Material, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoHeader
	}
	lines := splitLines(text)
	if lines[0] != RequirementHeader {
		return nil, ErrInvalidHeader
	}

	var materials []harvest.Material
	for i, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			continue
		}
		lineNo := i + 2
		name := strings.TrimSpace(fields[1])
		id, ok := items.ItemIDByName(name)
		if !ok {
			err := &UnknownNameError{Kind: "item", Name: name}
			if s, ok := items.(itemSuggester); ok {
				err.Suggestions = s.SuggestItem(name)
			}
			return nil, err
		}
		quantity, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Input: fields[2], Msg: "invalid quantity"}
		}
		valuation, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Input: fields[3], Msg: "invalid valuation"}
		}
		materials = append(materials, harvest.Material{
			ResourceID: id,
			Name:       name,
			Quantity:   quantity,
			Valuation:  valuation,
		})
	}
	return materials, nil
}

// NormalizeChatInput undoes the mangling chat clients apply to pasted lists:
// literal "\n" sequences become newlines and runs of four spaces become tabs.
func NormalizeChatInput(text string) string {
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, `\t`, "\t")
	return strings.ReplaceAll(text, "    ", "\t")
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
