package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/timesheet-reports/internal/config"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/cache"
	personioClient "github.com/cmlabs-hris/timesheet-reports/internal/pkg/personio"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/render"
	"github.com/cmlabs-hris/timesheet-reports/internal/pkg/storage"
	reportService "github.com/cmlabs-hris/timesheet-reports/internal/service/report"
	"github.com/spf13/cobra"
)

// app holds the collaborators shared by all commands. Tests inject them directly.
type app struct {
	client  personio.Client
	reports report.ReportService
	rules   personio.NamingRules
	store   storage.DocumentStore
	out     io.Writer

	dir     string
	verbose bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "reportctl",
		Short: "Render timesheet reports from the HR system",
		Long: `reportctl fetches confirmed attendances from the HR system and renders
the monthly, project and individual timesheet reports to files.
Credentials are read from the environment or a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.dir, "dir", "", "output directory (default $REPORT_OUTPUT_DIR or ./reports)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log upstream requests")

	root.AddCommand(newMonthlyCmd(a))
	root.AddCommand(newProjectCmd(a))
	root.AddCommand(newIndividualCmd(a))
	root.AddCommand(newProjectsCmd(a))
	return root
}

// setup builds the upstream client and services from config unless already injected.
func (a *app) setup() error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if a.client != nil && a.reports != nil && a.store != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidatePersonio(); err != nil {
		return err
	}

	client, err := personioClient.NewClient(
		personio.Credentials{ClientID: cfg.Personio.ClientID, ClientSecret: cfg.Personio.ClientSecret},
		personioClient.WithBaseURL(cfg.Personio.BaseURL),
		personioClient.WithPageSize(cfg.Personio.PageSize),
		personioClient.WithHTTPClient(&http.Client{Timeout: cfg.Personio.Timeout}),
	)
	if err != nil {
		return err
	}

	a.rules = personio.NamingRules{
		ExternalPrefix:     cfg.Projects.ExternalPrefix,
		ExclusionSubstring: cfg.Projects.ExclusionSubstring,
		DisplayPrefixLen:   cfg.Projects.DisplayPrefixLen,
	}
	a.client = client
	ttl := cache.TTLPolicy{
		Default:       cfg.Cache.Default,
		CurrentMonth:  cfg.Cache.CurrentMonth,
		PreviousMonth: cfg.Cache.PreviousMonth,
		OlderMonths:   cfg.Cache.OlderMonths,
	}
	a.reports = reportService.NewReportService(client, render.NewRenderer(cfg.App.CompanyName), cache.New(cache.WithDefaultTTL(ttl.Default)), ttl, a.rules)

	dir := a.dir
	if dir == "" {
		dir = cfg.Storage.BasePath
	}
	a.store, err = storage.NewLocalStorage(dir)
	return err
}

// save writes doc under name, falling back to the document's own filename.
func (a *app) save(ctx context.Context, doc report.Document, name string) error {
	if name == "" {
		name = doc.Filename
	}
	path, err := a.store.Save(ctx, name, bytes.NewReader(doc.Bytes))
	if err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	fmt.Fprintf(a.out, "wrote %s (%d bytes)\n", path, len(doc.Bytes))
	return nil
}
