package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"enrolldash/app"
	"enrolldash/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*/*.html static/css/*.css content/*.md
var embeddedFiles embed.FS

// Server represents the web server for the enrollment dashboard
type Server struct {
	router        *gin.Engine
	templates     *template.Template
	embeddedFiles embed.FS
	service       *app.DashboardService
	intro         template.HTML
}

// NewServer creates a new web server instance
func NewServer(service *app.DashboardService) *Server {
	return &Server{
		router:        gin.Default(),
		embeddedFiles: embeddedFiles,
		service:       service,
	}
}

// Initialize parses templates and the introduction, then sets up middleware and routes
func (s *Server) Initialize() error {
	templatesFS, err := fs.Sub(s.embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	s.templates = template.New("").Funcs(templateFuncs())
	for _, name := range fragments.GetAllTemplatePaths() {
		content, err := fs.ReadFile(templatesFS, name)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err := s.templates.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}
	log.Printf("[TemplateInit] Parsed %d templates", len(fragments.GetAllTemplatePaths()))

	intro, err := s.embeddedFiles.ReadFile("content/intro.md")
	if err != nil {
		return fmt.Errorf("failed to read introduction: %w", err)
	}
	s.intro = renderMarkdown(intro)

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/intro")
	})
	s.router.GET("/intro", s.handleIntro)
	s.router.GET("/eda", s.handleEDA)
	s.router.POST("/eda", s.handleEDAUpload)
	s.router.GET("/products", s.handleProducts)
	s.router.POST("/products", s.handleProductsUpload)
	s.router.GET("/healthz", s.handleHealth)
}

// Handler exposes the router for tests and custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting Student Enrollment Dashboard on http://%s", addr)
	return s.router.Run(addr)
}
