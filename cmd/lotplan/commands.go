package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lotplan/config"
	"github.com/katalvlaran/lotplan/integrity"
	"github.com/katalvlaran/lotplan/planning"
	"github.com/katalvlaran/lotplan/server"
	"github.com/katalvlaran/lotplan/tables"
)

// errIntegrity makes `check` exit non-zero when failures remain.
var errIntegrity = errors.New("data integrity failures found")

type rootFlags struct {
	configPath string
}

// newRootCmd builds the command tree. Only usage is silenced: cobra prints
// a failing command's error itself, so main just exits non-zero.
func newRootCmd() *cobra.Command {
	var rf rootFlags
	root := &cobra.Command{
		Use:          "lotplan",
		Short:        "lotplan - production and inventory planning",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&rf.configPath, "config", "c", "", "YAML configuration file")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newSolveCmd(&rf), newCheckCmd(), newSchemaCmd(), newServeCmd(&rf))

	return root
}

func loadConfig(cmd *cobra.Command, rf *rootFlags) (config.Config, error) {
	c, err := config.Load(rf.configPath, cmd.Flags())
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}

func newSolveCmd(rf *rootFlags) *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a data set and print or write the plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, rf)
			if err != nil {
				return err
			}
			log, err := cfg.Logger()
			if err != nil {
				return err
			}

			ds, err := tables.ReadPath(input, tables.Input())
			if err != nil {
				return err
			}
			in, err := tables.Decode(ds)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if cfg.Solver.TimeLimit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Solver.TimeLimit)
				defer cancel()
			}
			sol, err := planning.Solve(ctx, in, append(cfg.PlanningOptions(), planning.WithLogger(log))...)
			if err != nil {
				return fmt.Errorf("solve %s: %w", input, err)
			}

			printSolution(cmd.OutOrStdout(), sol)
			if output != "" && sol.Optimal() {
				if err := tables.WritePath(output, tables.Output(), tables.Encode(sol)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "written to %s\n", output)
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input data: CSV directory, .json or .yaml file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "where to write the output tables (same formats)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func printSolution(w io.Writer, sol planning.Solution) {
	fmt.Fprintf(w, "status: %s\n", sol.Status)
	if !sol.Optimal() {
		return
	}
	fmt.Fprintf(w, "total cost: %.2f\n", sol.Objective)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period ID\tProduction Quantity\tInventory Quantity\tProduction Cost\tInventory Cost\tTotal Cost\t")
	for i, f := range sol.ProductionFlow {
		c := sol.Costs[i]
		fmt.Fprintf(tw, "%d\t%g\t%g\t%.2f\t%.2f\t%.2f\t\n",
			f.Period, f.ProductionQuantity, f.InventoryQuantity, c.ProductionCost, c.InventoryCost, c.TotalCost)
	}
	tw.Flush()
}

func newCheckCmd() *cobra.Command {
	var (
		input, output string
		fix           bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Print the data integrity report of a data set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := tables.Input()
			ds, err := tables.ReadPath(input, s)
			if err != nil {
				return err
			}

			report := integrity.Check(ds, s)
			if _, err := report.WriteTo(cmd.OutOrStdout()); err != nil {
				return err
			}
			if report.Clean() {
				return nil
			}
			if !fix {
				return fmt.Errorf("%w: %d", errIntegrity, report.Count())
			}

			fixed, changes := integrity.Fix(ds, s)
			fmt.Fprintf(cmd.OutOrStdout(), "fixed %d cells or rows\n", changes)
			if output != "" {
				if err := tables.WritePath(output, s, fixed); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "written to %s\n", output)
			}
			if left := integrity.Check(fixed, s); !left.Clean() {
				return fmt.Errorf("%w: %d remain after fix", errIntegrity, left.Count())
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input data: CSV directory, .json or .yaml file")
	cmd.Flags().BoolVar(&fix, "fix", false, "replace bad cells with defaults and drop duplicate rows")
	cmd.Flags().StringVarP(&output, "output", "o", "", "where to write the fixed data set (with --fix)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "List input tables, fields and parameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			s := tables.Input()

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TABLE\tFIELD\tTYPE\tDEFAULT\tDISPLAY")
			for _, t := range s.Tables {
				if t.Hidden {
					continue
				}
				for _, f := range t.Fields {
					def := "-"
					if f.Default != nil {
						def = fmt.Sprint(f.Default)
					}
					kind := f.Kind.String()
					if f.MustBeInt {
						kind = "integer"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.Name, f.Name, kind, def, f.DisplayName)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(w)
			tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PARAMETER\tDEFAULT\tMIN\tDESCRIPTION")
			for _, p := range s.Parameters {
				fmt.Fprintf(tw, "%s\t%g\t%g\t%s\n", p.Name, p.Default, p.Min, p.Tooltip)
			}

			return tw.Flush()
		},
	}
}

func newServeCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, rf)
			if err != nil {
				return err
			}
			log, err := cfg.Logger()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			e, err := server.BuildServer(cfg, log, reg)
			if err != nil {
				return err
			}

			return server.Run(cmd.Context(), e, cfg.Server.Addr, log)
		},
	}
}
