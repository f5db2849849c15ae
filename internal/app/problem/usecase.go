// Package problem stores named requirement lists and solves them for the
// outposts attached to them.
package problem

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/org"
	"eveanchor/internal/app/ports"
	"eveanchor/internal/app/report"
	"eveanchor/internal/app/solve"
	"eveanchor/internal/domain/harvest"
)

var (
	ErrInvalidRequest = errors.New("invalid problem request")
	ErrNoOutposts     = errors.New("no outposts are attached to the problem")
	ErrInactive       = errors.New("problem is no longer active")
)

type Solver interface {
	Execute(ctx context.Context, req solve.Request) (solve.Response, error)
}

type UseCase struct {
	TxManager  ports.TxManager
	Members    ports.MemberRepository
	Capsuleers ports.CapsuleerRepository
	Problems   ports.ProblemRepository
	Outposts   ports.OutpostRepository
	Items      objective.ItemResolver
	Names      report.NameResolver
	Solver     Solver
	Org        org.Organisation
	Now        func() time.Time
}

type CreateRequest struct {
	Member       string `json:"member"`
	Name         string `json:"name"`
	Requirements string `json:"requirements"`
}

type CreateResponse struct {
	Problem ports.ProblemRecord `json:"problem"`
	Message string              `json:"message"`
}

// Create stores the requirement list under name. The list is parsed first so
// a problem can always be solved later.
func (u UseCase) Create(ctx context.Context, req CreateRequest) (CreateResponse, error) {
	req.Member = strings.TrimSpace(req.Member)
	req.Name = strings.TrimSpace(req.Name)
	if req.Member == "" || req.Name == "" {
		return CreateResponse{}, ErrInvalidRequest
	}
	req.Requirements = objective.NormalizeChatInput(req.Requirements)
	if _, err := objective.ParseRequirements(req.Requirements, u.Items); err != nil {
		return CreateResponse{}, err
	}

	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	var out CreateResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		memberID, err := org.EnsureMember(txCtx, u.Members, req.Member, u.Org.CorporationID)
		if err != nil {
			return err
		}
		record := ports.ProblemRecord{
			Name:          req.Name,
			Requirements:  req.Requirements,
			Active:        true,
			MemberID:      memberID,
			CorporationID: u.Org.CorporationID,
			AllianceID:    u.Org.AllianceID,
			CreatedAt:     nowFn().UTC(),
		}
		record.ID, err = u.Problems.Create(txCtx, record)
		if err != nil {
			return fmt.Errorf("problem %q: %w", req.Name, err)
		}
		out.Problem = record
		return nil
	})
	if err != nil {
		return CreateResponse{}, err
	}
	out.Message = fmt.Sprintf("**Problem**: %s created for %s in %s", req.Name, req.Member, u.Org.CorporationName)
	return out, nil
}

// Materials parses the stored requirement list of a problem.
func (u UseCase) Materials(ctx context.Context, name string) ([]harvest.Material, error) {
	p, err := u.Problems.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return objective.ParseRequirements(p.Requirements, u.Items)
}

// AttachOutpost assigns an outpost to a problem, replacing any previous
// assignment.
func (u UseCase) AttachOutpost(ctx context.Context, problemName, outpostName string) (string, error) {
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.Problems.FindByName(txCtx, strings.TrimSpace(problemName))
		if err != nil {
			return fmt.Errorf("problem %q: %w", problemName, err)
		}
		o, err := u.Outposts.FindByName(txCtx, strings.TrimSpace(outpostName))
		if err != nil {
			return fmt.Errorf("outpost %q: %w", outpostName, err)
		}
		return u.Outposts.AssignProblem(txCtx, o.ID, &p.ID)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("**Added**: %s to %s", outpostName, problemName), nil
}

// AttachMemberOutposts assigns every outpost flown by the member's
// capsuleers to the problem.
func (u UseCase) AttachMemberOutposts(ctx context.Context, problemName, member string) (string, error) {
	attached := 0
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := u.Problems.FindByName(txCtx, strings.TrimSpace(problemName))
		if err != nil {
			return fmt.Errorf("problem %q: %w", problemName, err)
		}
		m, err := u.Members.FindByName(txCtx, strings.TrimSpace(member))
		if err != nil {
			return fmt.Errorf("member %q: %w", member, err)
		}
		capsuleers, err := u.Capsuleers.FindByMember(txCtx, m.ID)
		if err != nil {
			return err
		}
		for _, c := range capsuleers {
			outposts, err := u.Outposts.FindByCapsuleer(txCtx, c.ID)
			if err != nil {
				return err
			}
			for _, o := range outposts {
				if err := u.Outposts.AssignProblem(txCtx, o.ID, &p.ID); err != nil {
					return err
				}
				attached++
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("**Added**: %d outposts of %s to %s", attached, member, problemName), nil
}

type SolveRequest struct {
	Problem string  `json:"problem"`
	Outpost string  `json:"outpost"`
	Days    float64 `json:"days"`
}

type SolveResponse struct {
	Solve   solve.Response `json:"solve"`
	Rows    []report.Row   `json:"rows"`
	Table   string         `json:"table"`
	Message string         `json:"message"`
}

// Solve plans the harvest for every outpost attached to the problem. Each
// outpost counts once toward its system. The table is limited to the
// system of the named outpost.
func (u UseCase) Solve(ctx context.Context, req SolveRequest) (SolveResponse, error) {
	if strings.TrimSpace(req.Problem) == "" || strings.TrimSpace(req.Outpost) == "" {
		return SolveResponse{}, ErrInvalidRequest
	}
	p, err := u.Problems.FindByName(ctx, strings.TrimSpace(req.Problem))
	if err != nil {
		return SolveResponse{}, fmt.Errorf("problem %q: %w", req.Problem, err)
	}
	if !p.Active {
		return SolveResponse{}, ErrInactive
	}
	focus, err := u.Outposts.FindByName(ctx, strings.TrimSpace(req.Outpost))
	if err != nil {
		return SolveResponse{}, fmt.Errorf("outpost %q: %w", req.Outpost, err)
	}
	attached, err := u.Outposts.FindByProblem(ctx, p.ID)
	if err != nil {
		return SolveResponse{}, err
	}
	if len(attached) == 0 {
		return SolveResponse{}, ErrNoOutposts
	}
	materials, err := objective.ParseRequirements(p.Requirements, u.Items)
	if err != nil {
		return SolveResponse{}, fmt.Errorf("stored requirements of %q: %w", p.Name, err)
	}

	groupings := make([]objective.Grouping, 0, len(attached))
	for _, o := range attached {
		groupings = append(groupings, objective.Grouping{Key: o.System, Count: 1})
	}
	res, err := u.Solver.Execute(ctx, solve.Request{
		Days:      req.Days,
		Groupings: objective.Canonical(groupings),
		Materials: materials,
	})
	if err != nil {
		return SolveResponse{}, err
	}

	rows := report.SolutionRows(res.Allocations, u.Names, focus.System)
	table := report.SolutionTable(rows, report.DefaultBudget)
	return SolveResponse{
		Solve: res,
		Rows:  rows,
		Table: table,
		Message: fmt.Sprintf("To maximize total value for %s meeting the %s material requirements within %s days harvest the following:\n%s",
			focus.Name, p.Name, strconv.FormatFloat(req.Days, 'f', -1, 64), table),
	}, nil
}
