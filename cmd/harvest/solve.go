package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"eveanchor/internal/adapter/manager/filestore"
	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/report"
	"eveanchor/internal/app/solve"
	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/domain/manager"
	"eveanchor/internal/refdata"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type solveOptions struct {
	days         float64
	groupings    []objective.Grouping
	requirements string
	manager      string
	key          string
}

func newSolveCmd(root *rootOptions) *cobra.Command {
	opts := &solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Plan arrays for the given constellations or systems",
		Example: `  harvest solve -D 7 -C Tanoo=1 -f requirements.tsv
  harvest solve -D 3 -C "San_Matar=2 Sooma=1" -f -
  harvest solve -D 7 --manager "Alliance/Corp/pilot" -f requirements.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSolve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), root, opts)
		},
	}
	cmd.Flags().Float64VarP(&opts.days, "days", "D", 0, "days between hauling and refuelling")
	cmd.Flags().VarP(groupingsValue{groupings: &opts.groupings}, "constellation", "C", "KEY=count grouping, repeatable")
	cmd.Flags().StringVarP(&opts.requirements, "file", "f", "", "exported requirement list, - for stdin")
	cmd.Flags().StringVar(&opts.manager, "manager", "", "add one grouping per stored outpost of alliance[/corporation[/member]]")
	cmd.Flags().StringVar(&opts.key, "key", "", "only print rows of this constellation or system")
	_ = cmd.MarkFlagRequired("days")
	return cmd
}

func runSolve(ctx context.Context, stdin io.Reader, out io.Writer, root *rootOptions, opts *solveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ref, err := refdata.Load(root.dataDir)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}
	tuning := harvest.DefaultTuning()
	if root.tuningFile != "" {
		if tuning, err = harvest.LoadTuning(root.tuningFile); err != nil {
			return err
		}
	}

	groupings := append([]objective.Grouping(nil), opts.groupings...)
	if opts.manager != "" {
		m, err := manager.Parse(opts.manager)
		if err != nil {
			return err
		}
		if err := filestore.New(root.root).Load(ctx, m); err != nil {
			return err
		}
		for _, o := range m.Outposts() {
			groupings = append(groupings, objective.Grouping{Key: o.System, Count: 1})
		}
	}

	req := solve.Request{Days: opts.days, Groupings: objective.Canonical(groupings)}
	if opts.requirements != "" {
		text, err := readRequirements(stdin, opts.requirements)
		if err != nil {
			return err
		}
		if req.Materials, err = objective.ParseRequirements(objective.NormalizeChatInput(text), ref); err != nil {
			return err
		}
	}

	res, err := solve.UseCase{Locations: ref, Tuning: tuning}.Execute(ctx, req)
	if err != nil {
		return err
	}

	heading := color.New(color.FgCyan, color.Bold)
	_, _ = heading.Fprintf(out, "Harvest plan for %d days\n", int(opts.days))
	printRows(out, report.SolutionRows(res.Allocations, ref, opts.key))

	summary := report.Summarize(res.Allocations, res.Values, opts.days)
	_, _ = color.New(color.FgGreen, color.Bold).Fprintln(out, "Summary")
	fmt.Fprintf(out, "   Arrays placed: %s on %d planets\n", strconv.FormatFloat(summary.Arrays, 'f', 2, 64), summary.Locations)
	fmt.Fprintf(out, "   Output value:  %s ISK\n", report.FormatValue(summary.Value))
	fmt.Fprintf(out, "   Signature:     %s\n", res.Signature)
	return nil
}

func readRequirements(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read requirements: %w", err)
	}
	return string(b), nil
}

func printRows(out io.Writer, rows []report.Row) {
	table := tablewriter.NewTable(out, tablewriter.WithHeader([]string{"Celestial", "Resource", "Arrays"}))
	for _, r := range rows {
		_ = table.Append([]string{r.Celestial, r.Resource, strconv.FormatFloat(r.Arrays, 'f', 2, 64)})
	}
	_ = table.Render()
}
