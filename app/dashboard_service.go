package app

import (
	"bytes"
	"context"
	"log"

	"enrolldash/adapters/excel"
	"enrolldash/internal/analysis"
	"enrolldash/internal/charts"
	"enrolldash/internal/config"
	"enrolldash/internal/uploads"
	"enrolldash/models"
	"enrolldash/ports"
)

// Upload is one file submitted to the dashboard
type Upload struct {
	Filename string
	Content  []byte
}

// EnrollmentResult is a completed EDA run
type EnrollmentResult struct {
	Run    *models.AnalysisRun
	Report *analysis.EnrollmentReport
	Charts []*charts.Image
}

// ProductResult is a completed product sales run
type ProductResult struct {
	Run    *models.AnalysisRun
	Report *analysis.ProductReport
	Charts []*charts.Image
}

// DashboardService runs analyses over uploads and records every run
type DashboardService struct {
	cfg      *config.Config
	renderer *charts.Renderer
	runs     ports.RunRepository
	archive  *uploads.Archive
}

// NewDashboardService creates a dashboard service. archive may be nil.
func NewDashboardService(cfg *config.Config, runs ports.RunRepository, archive *uploads.Archive) *DashboardService {
	return &DashboardService{
		cfg:      cfg,
		renderer: charts.NewRenderer(cfg.Charts.Width, cfg.Charts.Height),
		runs:     runs,
		archive:  archive,
	}
}

// Config returns the service configuration
func (s *DashboardService) Config() *config.Config {
	return s.cfg
}

// Enrollment reads the upload, runs the EDA pipeline and, when withCharts is set, renders
// the three charts. Any failure returns only the error.
func (s *DashboardService) Enrollment(ctx context.Context, upload Upload, withCharts bool) (*EnrollmentResult, error) {
	run := models.NewAnalysisRun(models.RunKindEnrollment, upload.Filename)
	defer s.record(ctx, run)

	table, err := s.load(ctx, run, upload)
	if err != nil {
		run.Fail(err)
		return nil, err
	}

	report, err := analysis.Analyze(ctx, table, analysis.Options{
		Term:     s.cfg.Analysis.Term,
		HeadRows: s.cfg.Analysis.HeadRows,
	})
	if err != nil {
		run.Fail(err)
		return nil, err
	}

	var images []*charts.Image
	if withCharts {
		images, err = charts.RenderAll(ctx, s.renderer.EnrollmentJobs(report)...)
		if err != nil {
			run.Fail(err)
			return nil, err
		}
	}

	run.Succeed(report.RowCount, len(report.Years))
	return &EnrollmentResult{Run: run, Report: report, Charts: images}, nil
}

// Products filters the upload to the tracked product codes and totals their sales
func (s *DashboardService) Products(ctx context.Context, upload Upload, withCharts bool) (*ProductResult, error) {
	run := models.NewAnalysisRun(models.RunKindProducts, upload.Filename)
	defer s.record(ctx, run)

	table, err := s.load(ctx, run, upload)
	if err != nil {
		run.Fail(err)
		return nil, err
	}

	report, err := analysis.AnalyzeProducts(ctx, table, analysis.ProductOptions{
		CodeColumn:  s.cfg.Products.CodeColumn,
		SalesColumn: s.cfg.Products.SalesColumn,
		Codes:       s.cfg.Products.Codes,
		TopN:        s.cfg.Products.TopN,
		HeadRows:    s.cfg.Analysis.HeadRows,
	})
	if err != nil {
		run.Fail(err)
		return nil, err
	}

	var images []*charts.Image
	if withCharts {
		images, err = charts.RenderAll(ctx, s.renderer.ProductJobs(report)...)
		if err != nil {
			run.Fail(err)
			return nil, err
		}
	}

	run.Succeed(report.RowCount, len(report.Totals))
	return &ProductResult{Run: run, Report: report, Charts: images}, nil
}

// RecentRuns lists the newest runs first
func (s *DashboardService) RecentRuns(ctx context.Context, limit int) ([]*models.AnalysisRun, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.ListRecent(ctx, limit)
}

func (s *DashboardService) load(ctx context.Context, run *models.AnalysisRun, upload Upload) (*excel.RawTable, error) {
	if err := uploads.ValidateFilename(upload.Filename); err != nil {
		return nil, err
	}

	if s.archive.Enabled() {
		path, err := s.archive.Store(ctx, upload.Content, upload.Filename)
		if err != nil {
			log.Printf("[DashboardService] WARNING - failed to archive %s: %v", upload.Filename, err)
		}
		run.ArchivePath = path
	}

	return excel.NewDataReader(upload.Filename).Read(bytes.NewReader(upload.Content))
}

// record stores the finished run. History failures are logged and never fail the analysis.
func (s *DashboardService) record(ctx context.Context, run *models.AnalysisRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Record(context.WithoutCancel(ctx), run); err != nil {
		log.Printf("[DashboardService] WARNING - failed to record run %s: %v", run.ID, err)
	}
}
