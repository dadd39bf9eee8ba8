package api

import (
	"encoding/json"
	stderrors "errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"enrolldash/app"
	"enrolldash/internal/errors"
	"enrolldash/internal/uploads"
)

const (
	uploadField     = "file"
	defaultRunLimit = 20
	maxRunLimit     = 200

	// loadErrorPrefix starts the single message of any failed upload
	loadErrorPrefix = "Error loading file: "
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEnrollmentSummary analyses a multipart upload and returns the EDA report.
// Charts are included as base64 PNGs when ?charts=true.
func (a *App) handleEnrollmentSummary(w http.ResponseWriter, r *http.Request) {
	upload, err := a.readUpload(r)
	if err != nil {
		writeError(w, loadErrorPrefix, err)
		return
	}

	result, err := a.service.Enrollment(r.Context(), upload, wantCharts(r))
	if err != nil {
		log.Printf("[handleEnrollmentSummary] FAILED - %s: %v", errors.GetCode(err), err)
		writeError(w, loadErrorPrefix, err)
		return
	}
	writeJSON(w, http.StatusOK, newEnrollmentView(result))
}

func (a *App) handleProductsSummary(w http.ResponseWriter, r *http.Request) {
	upload, err := a.readUpload(r)
	if err != nil {
		writeError(w, loadErrorPrefix, err)
		return
	}

	result, err := a.service.Products(r.Context(), upload, wantCharts(r))
	if err != nil {
		log.Printf("[handleProductsSummary] FAILED - %s: %v", errors.GetCode(err), err)
		writeError(w, loadErrorPrefix, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductView(result))
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, "", errors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := a.service.RecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, "", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": newRunViews(runs)})
}

func (a *App) readUpload(r *http.Request) (app.Upload, error) {
	limit := a.service.Config().Uploads.MaxBytes

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
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

func wantCharts(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("charts"))
	return err == nil && v
}

// writeError maps input failures to 400 and everything else to 500
func writeError(w http.ResponseWriter, prefix string, err error) {
	status := http.StatusInternalServerError
	if errors.IsInputError(err) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{
		Error: prefix + err.Error(),
		Code:  errors.GetCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[writeJSON] Failed to encode response: %v", err)
	}
}
