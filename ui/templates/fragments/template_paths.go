// Package fragments provides template path constants for organized template management
package fragments

import "strings"

// Template path constants for organized fragment access
const (
	// Layout templates
	LayoutHead    = "layout/head.html"
	LayoutSidebar = "layout/sidebar.html"
	LayoutFoot    = "layout/foot.html"

	// Report partials
	DataTable     = "partials/data_table.html"
	DescribeTable = "partials/describe_table.html"
	YearTable     = "partials/year_table.html"
	ChartFigure   = "partials/chart.html"
	UploadForm    = "partials/upload_form.html"

	// Pages
	PageIntro    = "pages/intro.html"
	PageEDA      = "pages/eda.html"
	PageProducts = "pages/products.html"
)

// GetAllTemplatePaths returns all template paths for registration
func GetAllTemplatePaths() []string {
	return []string{
		// Layout
		LayoutHead,
		LayoutSidebar,
		LayoutFoot,

		// Partials
		DataTable,
		DescribeTable,
		YearTable,
		ChartFigure,
		UploadForm,

		// Pages
		PageIntro,
		PageEDA,
		PageProducts,
	}
}

// GetTemplateCategory returns the category for a given template path
func GetTemplateCategory(templatePath string) string {
	switch {
	case strings.HasPrefix(templatePath, "layout/"):
		return "layout"
	case strings.HasPrefix(templatePath, "partials/"):
		return "partials"
	case strings.HasPrefix(templatePath, "pages/"):
		return "pages"
	default:
		return "unknown"
	}
}
