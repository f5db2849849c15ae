package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"eveanchor/internal/adapter/repo/memory"
	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/org"
	"eveanchor/internal/app/outpost"
	"eveanchor/internal/app/problem"
	"eveanchor/internal/app/solve"
	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/lp"
	"eveanchor/internal/refdata"
)

const requirements = objective.RequirementHeader + "\n" +
	"1\tSilicate Glass\t2000\t2022680\n" +
	"2\tLiquid Ozone\t1000\t166130"

func newDispatcher(t *testing.T) Dispatcher {
	t.Helper()
	ref, err := refdata.Load("../../refdata/testdata")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	store := memory.NewStore()
	tx := memory.NewTxManager(store)
	members := memory.NewMemberRepo(store)
	capsuleers := memory.NewCapsuleerRepo(store)
	outposts := memory.NewOutpostRepo(store)
	organisation := org.Organisation{CorporationID: 1, CorporationName: "Anchor Corp"}
	solveUC := solve.UseCase{Locations: ref}
	return Dispatcher{
		Solve: solveUC,
		Outposts: outpost.UseCase{
			TxManager:  tx,
			Members:    members,
			Capsuleers: capsuleers,
			Outposts:   outposts,
			Systems:    ref,
			Org:        organisation,
		},
		Problems: problem.UseCase{
			TxManager:  tx,
			Members:    members,
			Capsuleers: capsuleers,
			Problems:   memory.NewProblemRepo(store),
			Outposts:   outposts,
			Items:      ref,
			Names:      ref,
			Solver:     solveUC,
			Org:        organisation,
			Now:        func() time.Time { return time.Unix(1700000000, 0).UTC() },
		},
		Items: ref,
		Names: ref,
	}
}

func TestHandle_Help(t *testing.T) {
	d := newDispatcher(t)
	for _, msg := range []string{"", "help", "  HELP  "} {
		if got := d.Handle(context.Background(), "pilot", msg); got != helpText {
			t.Fatalf("Handle(%q)=%q want help", msg, got)
		}
	}
	if got := d.Handle(context.Background(), "pilot", "dance"); !strings.HasPrefix(got, "Unknown command `dance`.") {
		t.Fatalf("unknown command reply=%q", got)
	}
}

func TestHandle_Solve(t *testing.T) {
	d := newDispatcher(t)
	got := d.Handle(context.Background(), "pilot", "solve 7 Tanoo=1\n"+requirements)
	if !strings.HasPrefix(got, "To maximize total value for Tanoo=1 within 7 days harvest the following:\n```") {
		t.Fatalf("reply=%q", got)
	}
	if n := len([]rune(got)); n > 1999 {
		t.Fatalf("reply is %d runes, over the chat budget", n)
	}
}

func TestHandle_SolveAcceptsEscapedChatInput(t *testing.T) {
	d := newDispatcher(t)
	escaped := strings.ReplaceAll(strings.ReplaceAll(requirements, "\t", "    "), "\n", `\n`)
	got := d.Handle(context.Background(), "pilot", "solve 7 Tanoo=1 "+`\n`+escaped)
	if !strings.HasPrefix(got, "To maximize total value") {
		t.Fatalf("reply=%q", got)
	}
}

func TestHandle_Errors(t *testing.T) {
	d := newDispatcher(t)
	cases := []struct {
		msg  string
		want string
	}{
		{"solve", "Could not read `solve`."},
		{"solve seven Tanoo=1", "Could not read `solve`."},
		{"solve 7 Tanoo=1\nnot a header", "**Error**: Invalid header line."},
		{"solve 7 Tanoo=1\n" + objective.RequirementHeader + "\n1\tNanites\t10\t100", "**Infeasible**: there is no known source of"},
		{"parse", "**Error**: No header line."},
		{"outpost add x Tanao Kira 5 12", "**Error**: unknown system \"Tanao\""},
		{"outpost add x Tanoo Kira five 12", "Could not read `outpost`."},
		{"problem materials missing", "**Error**:"},
		{"problem solve", "Could not read `problem`."},
	}
	for _, tc := range cases {
		if got := d.Handle(context.Background(), "pilot", tc.msg); !strings.HasPrefix(got, tc.want) {
			t.Fatalf("Handle(%q)=%q want prefix %q", tc.msg, got, tc.want)
		}
	}
}

func TestHandle_OutpostAndProblemFlow(t *testing.T) {
	d := newDispatcher(t)
	ctx := context.Background()

	steps := []struct {
		msg  string
		want string
	}{
		{"outposts", "pilot has no outposts."},
		{"outpost add tanoo-1 Tanoo Kira 5 12", "**Register**: tanoo-1 to pilot in Tanoo with 12 arrays for each of 5 planets"},
		{"outpost add tanoo-1 Tanoo Kira 5 12", "**Error**: that name is already taken."},
		{"outposts", "```"},
		{"problem new frigates\n" + requirements, "**Problem**: frigates created for pilot in Anchor Corp"},
		{"problem materials frigates", "```"},
		{"problem add frigates all", "**Added**: 1 outposts of pilot to frigates"},
		{"problem solve frigates tanoo-1 7", "To maximize total value for tanoo-1 meeting the frigates material requirements within 7 days harvest the following:"},
		{"outpost delete tanoo-1", "**Deleted**: tanoo-1"},
		{"outposts", "pilot has no outposts."},
	}
	for _, step := range steps {
		if got := d.Handle(ctx, "pilot", step.msg); !strings.HasPrefix(got, step.want) {
			t.Fatalf("Handle(%q)=%q want prefix %q", step.msg, got, step.want)
		}
	}
}

func TestErrorReply_SolverOutcomes(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("map: %w", harvest.ErrNoCandidates), "**Infeasible**: none of the selected planets"},
		{fmt.Errorf("%w: %w", harvest.ErrSolverFailed, lp.ErrNumerical), "**Error**: the solver could not finish"},
		{fmt.Errorf("%w: %w", harvest.ErrInfeasible, lp.ErrInfeasible), "**Infeasible**: the requirements cannot be met"},
	}
	for _, tc := range cases {
		if got := (Dispatcher{}).errorReply("solve", tc.err); !strings.HasPrefix(got, tc.want) {
			t.Fatalf("errorReply(%v)=%q want prefix %q", tc.err, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("ééé", 2); got != "éé" {
		t.Fatalf("truncate()=%q want %q", got, "éé")
	}
	if got := truncate("abc", 5); got != "abc" {
		t.Fatalf("truncate()=%q want %q", got, "abc")
	}
}
