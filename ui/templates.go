package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"math"
	"strings"
	"time"

	"enrolldash/internal/charts"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// Render to a buffer first so a template error never leaves a half-written page
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		log.Printf("Template error for %s: %v", templateName, err)
		log.Printf("Template data type: %T", data)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	if !strings.Contains(buf.String(), "</html>") {
		log.Printf("WARNING: Rendered template %s appears truncated - missing </html> tag", templateName)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(200)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		log.Printf("Error writing template response: %v", err)
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"num":    formatNumber,
		"pct":    formatPercent,
		"count":  func(v float64) string { return fmt.Sprintf("%.0f", v) },
		"imgsrc": func(img *charts.Image) template.URL { return template.URL(img.DataURI()) },
		"css":    func(s string) template.CSS { return template.CSS("background-color: " + s) },
		"clock":  func(t time.Time) string { return t.Local().Format("15:04:05") },
		"join":   strings.Join,
		"dict":   dict,
	}
}

// dict builds a map from key/value pairs so partials can take several arguments
func dict(kv ...interface{}) (map[string]interface{}, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict needs an even number of arguments, got %d", len(kv))
	}
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}

// formatNumber prints two decimals; NaN and Inf from unguarded divisions show as "n/a"
func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func formatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v)
}
