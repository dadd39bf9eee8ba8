package ui

import (
	"context"
	stderrors "errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"enrolldash/app"
	"enrolldash/internal/analysis"
	"enrolldash/internal/charts"
	"enrolldash/internal/errors"
	"enrolldash/internal/uploads"
	"enrolldash/models"
	"enrolldash/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

const (
	dashboardTitle = "Student Enrollment Dashboard"
	uploadField    = "file"
	sidebarRuns    = 8
)

// Navigation targets
const (
	navIntro    = "intro"
	navEDA      = "eda"
	navProducts = "products"
)

// pageData is the view model shared by every page
type pageData struct {
	Title        string
	Active       string
	Intro        template.HTML
	Accept       string
	MaxUploadMB  int64
	Term         string
	Codes        []string
	Filename     string
	Error        string
	Enrollment   *analysis.EnrollmentReport
	Products     *analysis.ProductReport
	Charts       []*charts.Image
	DescribeRows []string
	Runs         []*models.AnalysisRun
}

func (s *Server) newPage(active string) *pageData {
	cfg := s.service.Config()
	return &pageData{
		Title:        dashboardTitle,
		Active:       active,
		Accept:       uploads.Accept(),
		MaxUploadMB:  cfg.Uploads.MaxBytes / (1024 * 1024),
		Term:         cfg.Analysis.Term,
		Codes:        cfg.Products.Codes,
		DescribeRows: analysis.DescribeRows,
	}
}

// handleIntro renders the introduction. It never touches the request body.
func (s *Server) handleIntro(c *gin.Context) {
	data := s.newPage(navIntro)
	data.Intro = s.intro
	data.Runs = s.recentRuns(c.Request.Context())
	s.renderTemplate(c, fragments.PageIntro, data)
}

func (s *Server) handleEDA(c *gin.Context) {
	data := s.newPage(navEDA)
	data.Runs = s.recentRuns(c.Request.Context())
	s.renderTemplate(c, fragments.PageEDA, data)
}

// handleEDAUpload analyses an uploaded enrollment table. Every failure, whatever its
// cause, renders the same single error line and no partial results.
func (s *Server) handleEDAUpload(c *gin.Context) {
	ctx := c.Request.Context()
	data := s.newPage(navEDA)

	upload, err := s.readUpload(c)
	if err == nil {
		data.Filename = upload.Filename
		var result *app.EnrollmentResult
		result, err = s.service.Enrollment(ctx, upload, true)
		if err == nil {
			data.Enrollment = result.Report
			data.Charts = result.Charts
		}
	}
	if err != nil {
		log.Printf("[handleEDAUpload] FAILED - %s: %v", errors.GetCode(err), err)
		data.Error = errorMessage(err)
	}

	data.Runs = s.recentRuns(ctx)
	s.renderTemplate(c, fragments.PageEDA, data)
}

func (s *Server) handleProducts(c *gin.Context) {
	data := s.newPage(navProducts)
	data.Runs = s.recentRuns(c.Request.Context())
	s.renderTemplate(c, fragments.PageProducts, data)
}

func (s *Server) handleProductsUpload(c *gin.Context) {
	ctx := c.Request.Context()
	data := s.newPage(navProducts)

	upload, err := s.readUpload(c)
	if err == nil {
		data.Filename = upload.Filename
		var result *app.ProductResult
		result, err = s.service.Products(ctx, upload, true)
		if err == nil {
			data.Products = result.Report
			data.Charts = result.Charts
		}
	}
	if err != nil {
		log.Printf("[handleProductsUpload] FAILED - %s: %v", errors.GetCode(err), err)
		data.Error = errorMessage(err)
	}

	data.Runs = s.recentRuns(ctx)
	s.renderTemplate(c, fragments.PageProducts, data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readUpload pulls the multipart file field and enforces the upload size limit
func (s *Server) readUpload(c *gin.Context) (app.Upload, error) {
	limit := s.service.Config().Uploads.MaxBytes

	file, header, err := c.Request.FormFile(uploadField)
	if err != nil {
		if isBodyTooLarge(err) {
			return app.Upload{}, errors.FileTooLarge(limit)
		}
		return app.Upload{}, errors.InvalidInput("no file uploaded")
	}
	defer file.Close()

	if header.Size > limit {
		return app.Upload{}, errors.FileTooLarge(limit)
	}
	content, err := uploads.ReadAll(file, limit)
	if err != nil {
		return app.Upload{}, err
	}
	return app.Upload{Filename: header.Filename, Content: content}, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// errorMessage is the one line shown for any failed upload
func errorMessage(err error) string {
	return "Error loading file: " + err.Error()
}

func (s *Server) recentRuns(ctx context.Context) []*models.AnalysisRun {
	runs, err := s.service.RecentRuns(ctx, sidebarRuns)
	if err != nil {
		log.Printf("[recentRuns] Failed to list runs: %v", err)
		return nil
	}
	return runs
}
