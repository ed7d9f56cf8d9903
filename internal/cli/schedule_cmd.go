package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/shopfloor/internal/cli/formatter"
	"github.com/alexanderramin/shopfloor/internal/contract"
	"github.com/alexanderramin/shopfloor/internal/export"
	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
	formatPDF   = "pdf"
	formatGantt = "gantt"
)

func newScheduleCmd(app *App) *cobra.Command {
	var (
		machines []string
		commit   bool
		latest   bool
		now      *time.Time
		format   string
		outPath  string
		width    int
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Build the production schedule",
		Long: `Build the production schedule from the stored shifts, machines and
requests. Without --commit nothing is stored. --latest shows the last
committed plan instead of building a new one.

Formats: table (default on a terminal), json (default otherwise), csv,
pdf and gantt. pdf needs --out.`,
		Example: `  shopfloor schedule
  shopfloor schedule --machine Press-01 --format gantt
  shopfloor schedule --commit --format pdf --out plan.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format == "" {
				format = formatJSON
				if app.interactive() && outPath == "" {
					format = formatTable
				}
			}
			if format == formatPDF && outPath == "" {
				return fmt.Errorf("--format pdf requires --out")
			}
			if latest && (commit || len(machines) > 0) {
				return fmt.Errorf("--latest cannot be combined with --commit or --machine")
			}

			var (
				resp *contract.ScheduleResponse
				err  error
			)
			if latest {
				resp, err = app.Schedules.Latest(ctx)
			} else {
				req := contract.NewScheduleRequest()
				req.Commit = commit
				req.Now = now
				for _, m := range machines {
					id, err := resolveMachineID(ctx, app, m)
					if err != nil {
						return err
					}
					req.MachineIDs = append(req.MachineIDs, id)
				}
				resp, err = app.Schedules.Build(ctx, req)
			}
			if err != nil {
				return err
			}

			out, err := renderSchedule(resp, format, width)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			summarize(cmd.ErrOrStderr(), resp, outPath)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&machines, "machine", nil, "Limit to a machine ID or name (repeatable)")
	cmd.Flags().BoolVar(&commit, "commit", false, "Store the result as the current plan")
	cmd.Flags().BoolVar(&latest, "latest", false, "Show the last committed plan")
	cmd.Flags().Var(&instantValue{t: &now}, "now", "Generation timestamp recorded in the result")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (table|json|csv|pdf|gantt)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().IntVar(&width, "width", 72, "Gantt width in columns")

	return cmd
}

func renderSchedule(resp *contract.ScheduleResponse, format string, width int) ([]byte, error) {
	switch format {
	case formatTable:
		return []byte(formatter.FormatSchedule(resp)), nil
	case formatGantt:
		return []byte(formatter.FormatGantt(resp, width)), nil
	case formatJSON:
		b, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding schedule: %w", err)
		}
		return append(b, '\n'), nil
	case formatCSV:
		return export.NewCSVExporter().Render(export.ScheduleDataset(resp))
	case formatPDF:
		return export.NewPDFExporter().Render(resp, "Production schedule")
	default:
		return nil, fmt.Errorf("unknown format %q (expected table, json, csv, pdf or gantt)", format)
	}
}

// summarize reports a file export on stderr so stdout stays clean.
func summarize(w io.Writer, resp *contract.ScheduleResponse, path string) {
	s := resp.Summary
	fmt.Fprintf(w, "Wrote %s: %d tasks, %d setups, %d skipped\n", path, s.TaskCount, s.SetupCount, s.SkippedCount)
	if resp.Committed {
		fmt.Fprintf(w, "Committed plan %s\n", resp.PlanID)
	}
	for _, warn := range resp.Warnings {
		fmt.Fprintln(w, formatter.StyleYellow.Render("! "+warn))
	}
}
