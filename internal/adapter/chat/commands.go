// Package chat turns single chat lines into use case calls and renders the
// replies as chat-sized text.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/outpost"
	"eveanchor/internal/app/ports"
	"eveanchor/internal/app/problem"
	"eveanchor/internal/app/report"
	"eveanchor/internal/app/solve"
	"eveanchor/internal/domain/harvest"

	"go.uber.org/zap"
)

const helpText = "**Commands**\n" +
	"`solve <days> <KEY=count>...` followed by an exported requirement list on the next lines\n" +
	"`parse` followed by an exported requirement list\n" +
	"`outposts [member]`\n" +
	"`outpost add <name> <system> <capsuleer> <planets> <arrays>`\n" +
	"`outpost delete <name>`\n" +
	"`problem new <name>` followed by an exported requirement list\n" +
	"`problem materials <name>`\n" +
	"`problem add <name> <outpost>` or `problem add <name> all`\n" +
	"`problem solve <name> <outpost> <days>`"

var errUsage = errors.New("usage")

// Dispatcher runs chat commands on behalf of a member.
type Dispatcher struct {
	Solve    solve.UseCase
	Outposts outpost.UseCase
	Problems problem.UseCase
	Items    objective.ItemResolver
	Names    report.NameResolver
	Logger   *zap.Logger
	// Budget caps a reply in runes. Zero means report.DefaultBudget.
	Budget int
}

// Handle runs one message. The first line is the command; any further lines
// are its payload.
func (d Dispatcher) Handle(ctx context.Context, member, message string) string {
	message = objective.NormalizeChatInput(strings.TrimSpace(message))
	head, body, _ := strings.Cut(message, "\n")
	args := strings.Fields(head)
	if len(args) == 0 {
		return helpText
	}

	var (
		reply string
		err   error
	)
	switch strings.ToLower(args[0]) {
	case "help":
		reply = helpText
	case "solve":
		reply, err = d.solve(ctx, args[1:], body)
	case "parse":
		reply, err = d.parse(body)
	case "outposts":
		reply, err = d.listOutposts(ctx, member, args[1:])
	case "outpost":
		reply, err = d.outpost(ctx, member, args[1:])
	case "problem":
		reply, err = d.problem(ctx, member, args[1:], body)
	default:
		return fmt.Sprintf("Unknown command `%s`.\n%s", args[0], helpText)
	}
	if err != nil {
		return d.errorReply(args[0], err)
	}
	return truncate(reply, d.budget())
}

func (d Dispatcher) solve(ctx context.Context, args []string, requirements string) (string, error) {
	if len(args) < 2 {
		return "", errUsage
	}
	days, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return "", errUsage
	}
	groupings := strings.Join(args[1:], " ")
	req, err := solve.FromText(d.Items, days, groupings, requirements)
	if err != nil {
		return "", err
	}
	res, err := d.Solve.Execute(ctx, req)
	if err != nil {
		return "", err
	}
	rows := report.SolutionRows(res.Allocations, d.Names, "")
	summary := report.Summarize(res.Allocations, res.Values, days)
	footer := fmt.Sprintf("%s arrays over %d planets, %s ISK",
		strconv.FormatFloat(summary.Arrays, 'f', 2, 64), summary.Locations, report.FormatValue(summary.Value))
	header := fmt.Sprintf("To maximize total value for %s within %s days harvest the following:",
		groupings, strconv.FormatFloat(days, 'f', -1, 64))
	// Leave room for the header, footer and fences.
	tableBudget := d.budget() - len([]rune(header)) - len([]rune(footer)) - 10
	return header + "\n" + report.SolutionTable(rows, tableBudget) + "\n" + footer, nil
}

func (d Dispatcher) parse(requirements string) (string, error) {
	materials, err := objective.ParseRequirements(requirements, d.Items)
	if err != nil {
		return "", err
	}
	return report.MaterialTable(materials, d.budget()), nil
}

func (d Dispatcher) listOutposts(ctx context.Context, member string, args []string) (string, error) {
	if len(args) > 0 {
		member = strings.Join(args, " ")
	}
	list, err := d.Outposts.ListForMember(ctx, member)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return "", err
	}
	if len(list) == 0 {
		return fmt.Sprintf("%s has no outposts.", member), nil
	}
	return report.OutpostTable(list, d.budget()), nil
}

func (d Dispatcher) outpost(ctx context.Context, member string, args []string) (string, error) {
	if len(args) == 0 {
		return "", errUsage
	}
	switch strings.ToLower(args[0]) {
	case "add":
		if len(args) != 6 {
			return "", errUsage
		}
		planets, err := strconv.Atoi(args[4])
		if err != nil {
			return "", errUsage
		}
		arrays, err := strconv.Atoi(args[5])
		if err != nil {
			return "", errUsage
		}
		resp, err := d.Outposts.Register(ctx, outpost.RegisterRequest{
			Member:    member,
			Name:      args[1],
			System:    args[2],
			Capsuleer: args[3],
			Planets:   planets,
			Arrays:    arrays,
		})
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	case "delete":
		if len(args) != 2 {
			return "", errUsage
		}
		if err := d.Outposts.Delete(ctx, args[1]); err != nil {
			return "", err
		}
		return fmt.Sprintf("**Deleted**: %s", args[1]), nil
	default:
		return "", errUsage
	}
}

func (d Dispatcher) problem(ctx context.Context, member string, args []string, body string) (string, error) {
	if len(args) < 2 {
		return "", errUsage
	}
	name := args[1]
	switch strings.ToLower(args[0]) {
	case "new":
		resp, err := d.Problems.Create(ctx, problem.CreateRequest{Member: member, Name: name, Requirements: body})
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	case "materials":
		materials, err := d.Problems.Materials(ctx, name)
		if err != nil {
			return "", err
		}
		return report.MaterialTable(materials, d.budget()), nil
	case "add":
		if len(args) != 3 {
			return "", errUsage
		}
		if strings.EqualFold(args[2], "all") {
			return d.Problems.AttachMemberOutposts(ctx, name, member)
		}
		return d.Problems.AttachOutpost(ctx, name, args[2])
	case "solve":
		if len(args) != 4 {
			return "", errUsage
		}
		days, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return "", errUsage
		}
		resp, err := d.Problems.Solve(ctx, problem.SolveRequest{Problem: name, Outpost: args[2], Days: days})
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	default:
		return "", errUsage
	}
}

func (d Dispatcher) errorReply(command string, err error) string {
	var (
		unknown  *objective.UnknownNameError
		noSource *harvest.NoSourceError
	)
	switch {
	case errors.Is(err, errUsage):
		return fmt.Sprintf("Could not read `%s`.\n%s", command, helpText)
	case errors.As(err, &unknown):
		return "**Error**: " + unknown.Error()
	case errors.As(err, &noSource):
		return "**Infeasible**: " + noSource.Error()
	case errors.Is(err, harvest.ErrInfeasible):
		return "**Infeasible**: the requirements cannot be met by the selected outposts."
	case errors.Is(err, harvest.ErrNoCandidates):
		return "**Infeasible**: none of the selected planets has a harvestable resource."
	case errors.Is(err, harvest.ErrSolverFailed):
		d.logger().Error("solver failed", zap.Error(err))
		return "**Error**: the solver could not finish this plan, please report it."
	case errors.Is(err, ports.ErrNotFound):
		return "**Error**: " + err.Error()
	case errors.Is(err, ports.ErrConflict):
		return "**Error**: that name is already taken."
	case errors.Is(err, harvest.ErrUnmappedResource):
		d.logger().Error("unmapped resource in reference data", zap.Error(err))
		return "**Error**: the reference data is incomplete, please report this."
	}
	var parseErr *objective.ParseError
	if errors.As(err, &parseErr) ||
		errors.Is(err, objective.ErrNoHeader) ||
		errors.Is(err, objective.ErrInvalidHeader) ||
		errors.Is(err, objective.ErrZeroQuantity) ||
		errors.Is(err, objective.ErrNoGroupings) ||
		errors.Is(err, harvest.ErrInvalidDays) ||
		errors.Is(err, outpost.ErrInvalidRequest) ||
		errors.Is(err, problem.ErrInvalidRequest) ||
		errors.Is(err, problem.ErrNoOutposts) ||
		errors.Is(err, problem.ErrInactive) {
		return "**Error**: " + err.Error()
	}
	d.logger().Error("chat command failed", zap.String("command", command), zap.Error(err))
	return "**Error**: something went wrong."
}

func (d Dispatcher) budget() int {
	if d.Budget > 0 {
		return d.Budget
	}
	return report.DefaultBudget
}

func (d Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func truncate(s string, budget int) string {
	r := []rune(s)
	if len(r) <= budget {
		return s
	}
	return string(r[:budget])
}
