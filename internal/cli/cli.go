// Package cli implements ledgerctl, the operator command line for the ledger
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/app"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/export"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Opener connects the services a command runs against. The returned func
// releases them.
type Opener func(ctx context.Context) (*app.Services, func(), error)

type runner struct {
	open Opener
	now  func() time.Time
}

// NewRootCmd builds the ledgerctl command tree
func NewRootCmd(open Opener) *cobra.Command {
	r := &runner{open: open, now: time.Now}

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Inspect and maintain the finance ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	reports := &cobra.Command{
		Use:   "reports",
		Short: "Monthly snapshots",
	}
	reports.AddCommand(
		r.reportsListCmd(),
		r.reportsRegenerateCmd(),
		r.reportsCloseCmd(),
		r.reportsExportCmd(),
	)

	root.AddCommand(r.summaryCmd(), reports, r.savingsCmd())
	return root
}

// with opens the services for the duration of fn
func (r *runner) with(cmd *cobra.Command, fn func(ctx context.Context, s *app.Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, release, err := r.open(ctx)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer release()
	return fn(ctx, services)
}

func addPeriodFlags(cmd *cobra.Command, year, month *int) {
	cmd.Flags().IntVar(year, "year", 0, "Year of the period")
	cmd.Flags().IntVar(month, "month", 0, "Month of the period (1-12)")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
}

func (r *runner) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the current month's dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, s *app.Services) error {
				summary, err := s.Dashboard.GetSummary(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				rows := pterm.TableData{
					{"Period", summary.Period.String()},
					{"Total balance", money(summary.TotalBalance)},
					{"Month income", money(summary.MonthIncome)},
					{"Month expenses", money(summary.MonthExpenses)},
					{"Current savings", money(summary.CurrentSavings)},
					{"Accumulated real savings", money(summary.AccumulatedAnnualSavings)},
					{"Recurring per month", money(summary.RecurringMonthlyTotal)},
					{"Accounts", strconv.Itoa(summary.AccountCount)},
					{"Transactions", strconv.Itoa(summary.TransactionCount)},
				}
				if err := pterm.DefaultTable.WithWriter(out).WithData(rows).Render(); err != nil {
					return err
				}

				if len(summary.TopCategories) > 0 {
					top := pterm.TableData{{"Category", "Spent"}}
					for _, c := range summary.TopCategories {
						top = append(top, []string{c.Category, money(c.Total)})
					}
					if err := pterm.DefaultTable.WithWriter(out).WithHasHeader().WithData(top).Render(); err != nil {
						return err
					}
				}

				if summary.ReconciliationIncomplete {
					pterm.Warning.WithWriter(out).Println("Some months could not be reconciled; accumulated savings exclude them")
				}
				for _, w := range summary.Warnings {
					pterm.Warning.WithWriter(out).Println(w)
				}
				return nil
			})
		},
	}
}

func (r *runner) reportsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, s *app.Services) error {
				reports, err := s.Reports.GetMonthlyReports(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(reports) == 0 {
					pterm.Info.WithWriter(out).Println("No snapshots stored")
					return nil
				}
				return reportTable(out, reports)
			})
		},
	}
}

func (r *runner) reportsRegenerateCmd() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Recompute and overwrite the snapshot of one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, s *app.Services) error {
				report, err := s.Reports.RegenerateMonthlyReport(ctx, month, year)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				pterm.Success.WithWriter(out).Printfln("Snapshot %s written", report.Period())
				return reportTable(out, []*domain.MonthlyReport{report})
			})
		},
	}
	addPeriodFlags(cmd, &year, &month)
	return cmd
}

func (r *runner) reportsCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Write this month's snapshot if today is its last day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, s *app.Services) error {
				report, written, err := s.Reports.EnsurePeriodClosed(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case written:
					pterm.Success.WithWriter(out).Printfln("Snapshot %s written", report.Period())
				case report != nil:
					pterm.Info.WithWriter(out).Printfln("Snapshot %s already exists", report.Period())
				default:
					pterm.Info.WithWriter(out).Println("Not the last day of the month; nothing to close")
				}
				return nil
			})
		},
	}
}

func (r *runner) reportsExportCmd() *cobra.Command {
	var formatFlag, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every snapshot to CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			return r.with(cmd, func(ctx context.Context, s *app.Services) error {
				reports, err := s.Reports.GetMonthlyReports(ctx)
				if err != nil {
					return err
				}

				now := r.now()
				if outPath == "" {
					outPath = format.Filename(now)
				}
				if outPath == "-" {
					return export.Write(cmd.OutOrStdout(), format, reports, now)
				}

				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				if err := export.Write(f, format, reports, now); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Exported %d snapshots to %s", len(reports), outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", string(export.FormatCSV), "csv or pdf")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file, - for stdout (default monthly-reports-YYYYMMDD.<format>)")
	return cmd
}

func (r *runner) savingsCmd() *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Reconcile the real savings of one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, s *app.Services) error {
				rec, err := s.Reconciliation.GetRealSavings(ctx, month, year)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				rows := pterm.TableData{
					{"Period", rec.Period.String()},
					{"Start balance", fmt.Sprintf("%s (%s)", money(rec.StartBalance.Amount), rec.StartBalance.Source)},
					{"End balance", fmt.Sprintf("%s (%s)", money(rec.EndBalance.Amount), rec.EndBalance.Source)},
					{"Naive savings", money(rec.NaiveSavings)},
					{"Real savings", money(rec.RealSavings)},
					{"From snapshot", strconv.FormatBool(rec.FromSnapshot)},
				}
				if err := pterm.DefaultTable.WithWriter(out).WithData(rows).Render(); err != nil {
					return err
				}
				if rec.Incomplete {
					pterm.Warning.WithWriter(out).Println("Reconciliation incomplete: no anchored balance for this month")
				}
				for _, w := range rec.Warnings {
					pterm.Warning.WithWriter(out).Println(w)
				}
				return nil
			})
		},
	}
	addPeriodFlags(cmd, &year, &month)
	return cmd
}

func reportTable(w io.Writer, reports []*domain.MonthlyReport) error {
	data := pterm.TableData{{"Period", "Income", "Expenses", "Naive", "Real", "End balance", "Complete"}}
	for _, r := range reports {
		data = append(data, []string{
			r.Period().String(),
			money(r.TotalIncome),
			money(r.TotalExpenses),
			money(r.NaiveSavings),
			money(r.RealSavings),
			money(r.EndOfMonthBalance),
			strconv.FormatBool(!r.ReconciliationIncomplete),
		})
	}
	return pterm.DefaultTable.WithWriter(w).WithHasHeader().WithData(data).Render()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
