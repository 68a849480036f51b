package main

import (
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
	"github.com/spf13/cobra"
)

func currentMonth() string {
	return time.Now().Format("2006-01")
}

func newMonthlyCmd(a *app) *cobra.Command {
	var month, out string
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Render the monthly report across all external projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.reports.MonthlyDocument(cmd.Context(), report.MonthlyReportRequest{Date: month})
			if err != nil {
				return err
			}
			return a.save(cmd.Context(), doc, out)
		},
	}
	cmd.Flags().StringVar(&month, "month", currentMonth(), "month to report, YYYY-MM")
	cmd.Flags().StringVarP(&out, "out", "o", "", "file name inside the output directory")
	return cmd
}

func newProjectCmd(a *app) *cobra.Command {
	var (
		month    string
		out      string
		projects []string
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Render the project report for selected projects",
		Long: `Render the project report for the given month. Without --project every
external project is included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.reports.ProjectDocument(cmd.Context(), report.ProjectReportRequest{
				StartDate: month,
				Projects:  projects,
			})
			if err != nil {
				return err
			}
			return a.save(cmd.Context(), doc, out)
		},
	}
	cmd.Flags().StringVar(&month, "month", currentMonth(), "month to report, YYYY-MM")
	cmd.Flags().StringSliceVarP(&projects, "project", "p", nil, "project name, repeatable")
	cmd.Flags().StringVarP(&out, "out", "o", "", "file name inside the output directory")
	return cmd
}

func newIndividualCmd(a *app) *cobra.Command {
	var (
		project  string
		from, to string
		format   string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "individual",
		Short: "Render one project's day-by-day report as PDF or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.reports.IndividualDocument(cmd.Context(), report.IndividualReportRequest{
				Project:   project,
				StartDate: from,
				EndDate:   to,
				Format:    report.Format(format),
			})
			if err != nil {
				return err
			}
			return a.save(cmd.Context(), doc, out)
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "project name")
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatPDF), "output format: pdf or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "file name inside the output directory")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
