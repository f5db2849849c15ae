package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	metricsinmemory "eveanchor/internal/adapter/metrics/inmemory"
	"eveanchor/internal/adapter/repo/memory"
	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/org"
	"eveanchor/internal/app/outpost"
	"eveanchor/internal/app/ports"
	"eveanchor/internal/app/problem"
	"eveanchor/internal/app/solve"
	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/lp"
	"eveanchor/internal/refdata"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

const requirements = objective.RequirementHeader + "\n" +
	"1\tSilicate Glass\t2000\t2022680\n" +
	"2\tLiquid Ozone\t1000\t166130\n"

func newTestHandler(t *testing.T) Handler {
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
	return Handler{
		SolveUC: solveUC,
		OutpostUC: outpost.UseCase{
			TxManager:  tx,
			Members:    members,
			Capsuleers: capsuleers,
			Outposts:   outposts,
			Systems:    ref,
			Org:        organisation,
		},
		ProblemUC: problem.UseCase{
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

func jsonContext(t *testing.T, payload any) *app.RequestContext {
	t.Helper()
	ctx := &app.RequestContext{}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	ctx.Request.SetBody(b)
	return ctx
}

func decodeBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("decode response: %v body=%s", err, ctx.Response.Body())
	}
	return body
}

func errorCode(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	errBody, _ := decodeBody(t, ctx)["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestSolve_OK(t *testing.T) {
	h := newTestHandler(t)
	ctx := jsonContext(t, solveRequest{Days: 7, Groupings: "Tanoo=1", Requirements: requirements})

	h.solve(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	body := decodeBody(t, ctx)
	if _, ok := body["allocations"]; !ok {
		t.Fatalf("expected allocations in response, got %v", body)
	}
	table, _ := body["table"].(string)
	if !strings.HasPrefix(table, "```") {
		t.Fatalf("expected fenced table, got %q", table)
	}
	summary, _ := body["summary"].(map[string]any)
	if arrays, _ := summary["arrays"].(float64); arrays <= 0 {
		t.Fatalf("expected arrays in summary, got %v", summary)
	}
}

func TestSolve_ChatCopiedRequirements(t *testing.T) {
	h := newTestHandler(t)
	chat := strings.ReplaceAll(requirements, "\t", "    ")
	ctx := jsonContext(t, solveRequest{Days: 7, Groupings: "Tanoo=1", Requirements: chat})

	h.solve(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
}

func TestSolve_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   solveRequest
		status int
		code   string
	}{
		{
			name:   "missing groupings",
			body:   solveRequest{Days: 7, Requirements: requirements},
			status: consts.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "bad header",
			body:   solveRequest{Days: 7, Groupings: "Tanoo=1", Requirements: "nope\n1\tSilicate Glass\t1\t1"},
			status: consts.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "zero days",
			body:   solveRequest{Days: 0, Groupings: "Tanoo=1"},
			status: consts.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "unknown item",
			body:   solveRequest{Days: 7, Groupings: "Tanoo=1", Requirements: objective.RequirementHeader + "\n1\tSilicate Glas\t10\t1"},
			status: consts.StatusBadRequest,
			code:   "unknown_name",
		},
		{
			name:   "no source",
			body:   solveRequest{Days: 7, Groupings: "Tanoo=1", Requirements: objective.RequirementHeader + "\n1\tNanites\t10\t100"},
			status: consts.StatusUnprocessableEntity,
			code:   "infeasible",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t)
			ctx := jsonContext(t, tc.body)

			h.solve(context.Background(), ctx)

			if got := ctx.Response.StatusCode(); got != tc.status {
				t.Fatalf("status mismatch: got=%d want=%d body=%s", got, tc.status, ctx.Response.Body())
			}
			if got := errorCode(t, ctx); got != tc.code {
				t.Fatalf("code mismatch: got=%q want=%q", got, tc.code)
			}
		})
	}
}

func TestSolve_InvalidJSON(t *testing.T) {
	h := newTestHandler(t)
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte("{"))

	h.solve(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "invalid_json"; got != want {
		t.Fatalf("code mismatch: got=%q want=%q", got, want)
	}
}

func TestParseRequirements_OK(t *testing.T) {
	h := newTestHandler(t)
	ctx := jsonContext(t, parseRequest{Requirements: requirements})

	h.parseRequirements(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	materials, _ := decodeBody(t, ctx)["materials"].([]any)
	if len(materials) != 2 {
		t.Fatalf("expected 2 materials, got %v", materials)
	}
}

func TestOutpostAndProblemFlow(t *testing.T) {
	h := newTestHandler(t)
	c := context.Background()

	ctx := jsonContext(t, outpost.RegisterRequest{Member: "pilot#0001", Capsuleer: "Kira", Name: "tanoo-1", System: "Tanoo", Planets: 5, Arrays: 12})
	h.registerOutpost(c, ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("register status: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}

	ctx = &app.RequestContext{}
	h.listOutposts(c, ctx)
	outposts, _ := decodeBody(t, ctx)["outposts"].([]any)
	if len(outposts) != 1 {
		t.Fatalf("expected one outpost, got %v", outposts)
	}

	ctx = jsonContext(t, problem.CreateRequest{Member: "pilot#0001", Name: "frigates", Requirements: requirements})
	h.createProblem(c, ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("create problem status: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "name", Value: "frigates"}}
	h.problemMaterials(c, ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("materials status: got=%d want=%d", got, want)
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "name", Value: "frigates"}, {Key: "outpost", Value: "tanoo-1"}}
	h.attachOutpost(c, ctx)
	if got, want := decodeBody(t, ctx)["message"], "**Added**: tanoo-1 to frigates"; got != want {
		t.Fatalf("attach message: got=%v want=%v", got, want)
	}

	ctx = jsonContext(t, solveProblemRequest{Outpost: "tanoo-1", Days: 7})
	ctx.Params = param.Params{{Key: "name", Value: "frigates"}}
	h.solveProblem(c, ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("solve problem status: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	msg, _ := decodeBody(t, ctx)["message"].(string)
	if !strings.HasPrefix(msg, "To maximize total value for tanoo-1 meeting the frigates material requirements within 7 days") {
		t.Fatalf("unexpected message %q", msg)
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "name", Value: "tanoo-1"}}
	h.deleteOutpost(c, ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNoContent; got != want {
		t.Fatalf("delete status: got=%d want=%d", got, want)
	}

	ctx = &app.RequestContext{}
	ctx.Params = param.Params{{Key: "name", Value: "tanoo-1"}}
	h.deleteOutpost(c, ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("second delete status: got=%d want=%d", got, want)
	}
}

func TestSolves_ReturnsRecentHistory(t *testing.T) {
	h := newTestHandler(t)
	history := &fakeHistory{records: []ports.SolveRecord{{ID: "r1", Outcome: ports.OutcomeOK}}}
	h.History = history
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/v1/solves?limit=5")

	h.solves(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if history.limit != 5 {
		t.Fatalf("limit=%d want 5", history.limit)
	}
}

func TestSolves_NotConfigured(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}

	h.solves(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestKPI_Snapshot(t *testing.T) {
	rec := metricsinmemory.NewRecorder()
	rec.RecordSolve(ports.OutcomeOK, time.Second)
	h := Handler{KPI: rec}
	ctx := &app.RequestContext{}

	h.kpi(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&objective.ParseError{Line: 2, Input: "x", Msg: "bad row"}, consts.StatusBadRequest, "invalid_request"},
		{objective.ErrNoHeader, consts.StatusBadRequest, "invalid_request"},
		{problem.ErrInvalidRequest, consts.StatusBadRequest, "bad_request"},
		{&objective.UnknownNameError{Kind: "item", Name: "x"}, consts.StatusBadRequest, "unknown_name"},
		{&harvest.NoSourceError{ResourceIDs: []int64{1}}, consts.StatusUnprocessableEntity, "infeasible"},
		{fmt.Errorf("map: %w", harvest.ErrNoCandidates), consts.StatusUnprocessableEntity, "no_candidates"},
		{problem.ErrNoOutposts, consts.StatusUnprocessableEntity, "no_outposts"},
		{fmt.Errorf("%w: %w", harvest.ErrSolverFailed, lp.ErrIterationLimit), consts.StatusInternalServerError, "solver_failed"},
		{problem.ErrInactive, consts.StatusConflict, "problem_inactive"},
		{&harvest.UnmappedResourceError{ResourceID: 9}, consts.StatusInternalServerError, "unmapped_resource"},
		{fmt.Errorf("problem %q: %w", "x", ports.ErrNotFound), consts.StatusNotFound, "not_found"},
		{ports.ErrConflict, consts.StatusConflict, "conflict"},
		{errors.New("boom"), consts.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		ctx := &app.RequestContext{}
		writeError(ctx, tc.err)
		if got := ctx.Response.StatusCode(); got != tc.status {
			t.Fatalf("%v: status got=%d want=%d", tc.err, got, tc.status)
		}
		if got := errorCode(t, ctx); got != tc.code {
			t.Fatalf("%v: code got=%q want=%q", tc.err, got, tc.code)
		}
	}
}

type fakeHistory struct {
	records []ports.SolveRecord
	limit   int
}

func (f *fakeHistory) Append(context.Context, ports.SolveRecord) error { return nil }

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]ports.SolveRecord, error) {
	f.limit = limit
	return f.records, nil
}
