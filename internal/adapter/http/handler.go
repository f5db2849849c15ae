package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/outpost"
	"eveanchor/internal/app/ports"
	"eveanchor/internal/app/problem"
	"eveanchor/internal/app/report"
	"eveanchor/internal/app/solve"
	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/domain/manager"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const defaultHistoryLimit = 20

type Handler struct {
	SolveUC   solve.UseCase
	OutpostUC outpost.UseCase
	ProblemUC problem.UseCase
	Items     objective.ItemResolver
	Names     report.NameResolver
	History   ports.SolveHistory
	Metrics   http.Handler
	KPI       kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	v1 := s.Group("/api/v1")
	v1.POST("/solve", h.solve)
	v1.GET("/solves", h.solves)
	v1.POST("/requirements/parse", h.parseRequirements)
	v1.GET("/outposts", h.listOutposts)
	v1.POST("/outposts", h.registerOutpost)
	v1.DELETE("/outposts/:name", h.deleteOutpost)
	v1.POST("/problems", h.createProblem)
	v1.GET("/problems/:name/materials", h.problemMaterials)
	v1.POST("/problems/:name/outposts/:outpost", h.attachOutpost)
	v1.POST("/problems/:name/solve", h.solveProblem)

	s.GET("/health", h.health)
	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

type solveRequest struct {
	Days         float64 `json:"days"`
	Groupings    string  `json:"groupings"`
	Requirements string  `json:"requirements"`
	// Key limits the rendered table to one constellation or system.
	Key string `json:"key,omitempty"`
}

type solveResponse struct {
	solve.Response
	Rows    []report.Row   `json:"rows"`
	Table   string         `json:"table"`
	Summary report.Summary `json:"summary"`
}

func (h Handler) solve(c context.Context, ctx *app.RequestContext) {
	var body solveRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	req, err := solve.FromText(h.Items, body.Days, body.Groupings, objective.NormalizeChatInput(body.Requirements))
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.SolveUC.Execute(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	rows := report.SolutionRows(resp.Allocations, h.Names, body.Key)
	ctx.JSON(consts.StatusOK, solveResponse{
		Response: resp,
		Rows:     rows,
		Table:    report.SolutionTable(rows, report.DefaultBudget),
		Summary:  report.Summarize(resp.Allocations, resp.Values, body.Days),
	})
}

func (h Handler) solves(c context.Context, ctx *app.RequestContext) {
	if h.History == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "solve history not configured")
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	records, err := h.History.Recent(c, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"solves": records})
}

type parseRequest struct {
	Requirements string `json:"requirements"`
}

func (h Handler) parseRequirements(_ context.Context, ctx *app.RequestContext) {
	var body parseRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	materials, err := objective.ParseRequirements(objective.NormalizeChatInput(body.Requirements), h.Items)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"materials": materials,
		"table":     report.MaterialTable(materials, report.DefaultBudget),
	})
}

func (h Handler) listOutposts(c context.Context, ctx *app.RequestContext) {
	var (
		outposts []manager.Outpost
		err      error
	)
	if member := strings.TrimSpace(string(ctx.Query("member"))); member != "" {
		outposts, err = h.OutpostUC.ListForMember(c, member)
	} else {
		outposts, err = h.OutpostUC.List(c)
	}
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"outposts": outposts,
		"table":    report.OutpostTable(outposts, report.DefaultBudget),
	})
}

func (h Handler) registerOutpost(c context.Context, ctx *app.RequestContext) {
	var body outpost.RegisterRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.OutpostUC.Register(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) deleteOutpost(c context.Context, ctx *app.RequestContext) {
	if err := h.OutpostUC.Delete(c, ctx.Param("name")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) createProblem(c context.Context, ctx *app.RequestContext) {
	var body problem.CreateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.ProblemUC.Create(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) problemMaterials(c context.Context, ctx *app.RequestContext) {
	materials, err := h.ProblemUC.Materials(c, ctx.Param("name"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"materials": materials,
		"table":     report.MaterialTable(materials, report.DefaultBudget),
	})
}

func (h Handler) attachOutpost(c context.Context, ctx *app.RequestContext) {
	msg, err := h.ProblemUC.AttachOutpost(c, ctx.Param("name"), ctx.Param("outpost"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{"message": msg})
}

type solveProblemRequest struct {
	Outpost string  `json:"outpost"`
	Days    float64 `json:"days"`
}

func (h Handler) solveProblem(c context.Context, ctx *app.RequestContext) {
	var body solveProblemRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.ProblemUC.Solve(c, problem.SolveRequest{
		Problem: ctx.Param("name"),
		Outpost: body.Outpost,
		Days:    body.Days,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) health(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	var (
		parseErr   *objective.ParseError
		unknownErr *objective.UnknownNameError
	)
	switch {
	case errors.As(err, &unknownErr):
		ctx.JSON(consts.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"code":        "unknown_name",
				"message":     err.Error(),
				"suggestions": unknownErr.Suggestions,
			},
		})
	case errors.As(err, &parseErr),
		errors.Is(err, objective.ErrNoHeader),
		errors.Is(err, objective.ErrInvalidHeader),
		errors.Is(err, objective.ErrZeroQuantity),
		errors.Is(err, objective.ErrNoGroupings),
		errors.Is(err, harvest.ErrInvalidDays):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, outpost.ErrInvalidRequest),
		errors.Is(err, problem.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, harvest.ErrInfeasible):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "infeasible", err.Error())
	case errors.Is(err, harvest.ErrNoCandidates):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "no_candidates", err.Error())
	case errors.Is(err, problem.ErrNoOutposts):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "no_outposts", err.Error())
	case errors.Is(err, problem.ErrInactive):
		writeErrorBody(ctx, consts.StatusConflict, "problem_inactive", err.Error())
	case errors.Is(err, harvest.ErrUnmappedResource):
		writeErrorBody(ctx, consts.StatusInternalServerError, "unmapped_resource", err.Error())
	case errors.Is(err, harvest.ErrSolverFailed):
		writeErrorBody(ctx, consts.StatusInternalServerError, "solver_failed", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
