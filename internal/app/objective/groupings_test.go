package objective

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseGroupings(t *testing.T) {
	got, err := ParseGroupings("  Tanoo=1\tSan_Matar=2 FY6-NK=3 ")
	if err != nil {
		t.Fatalf("ParseGroupings() error = %v", err)
	}
	want := []Grouping{{Key: "Tanoo", Count: 1}, {Key: "San_Matar", Count: 2}, {Key: "FY6-NK", Count: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseGroupings() mismatch (-want +got):\n%s", diff)
	}
	if Consumers(got) != 6 {
		t.Fatalf("Consumers()=%d want 6", Consumers(got))
	}
}

func TestParseGroupings_Errors(t *testing.T) {
	cases := map[string]string{
		"Tanoo":   "no `=` found in `Tanoo`",
		"=3":      "empty key",
		"Tanoo=x": "non-negative integer",
		"Tanoo=-": "non-negative integer",
	}
	for input, want := range cases {
		_, err := ParseGroupings("Sooma=1 " + input)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("ParseGroupings(%q) error = %v want ParseError", input, err)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("ParseGroupings(%q) error = %q want substring %q", input, err, want)
		}
	}
}

func TestCanonical_SortsAndMerges(t *testing.T) {
	got := Canonical([]Grouping{{"Tanoo", 1}, {"Sooma", 2}, {"Tanoo", 2}})
	want := []Grouping{{"Sooma", 2}, {"Tanoo", 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Canonical() mismatch (-want +got):\n%s", diff)
	}
}
