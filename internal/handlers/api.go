package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

// UploadFieldName is the multipart form field carrying the sales export.
const UploadFieldName = "csvFile"

var allowedUploadMimeTypes = []string{
	"text/csv",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type APIHandlers struct {
	sales          *services.Sales
	logger         *slog.Logger
	maxUploadBytes int64
}

func NewAPIHandlers(sales *services.Sales, logger *slog.Logger, maxUploadBytes int64) *APIHandlers {
	return &APIHandlers{
		sales:          sales,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleUpload ingests a multipart CSV/Excel export and replaces the current
// dataset. The body is capped before any decoding happens.
func (h *APIHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Invalid or oversized upload payload"), requestID)
		return
	}

	file, header, err := r.FormFile(UploadFieldName)
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequest("No file uploaded"), requestID)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !allowedUploadType(header.Filename, mimeType) {
		errors.WriteError(w, h.logger, errors.BadRequest("Only CSV or Excel files are allowed"), requestID)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to read uploaded file"), requestID)
		return
	}

	count, err := h.sales.Upload(r.Context(), data, header.Filename, mimeType)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteJSON(w, map[string]any{
		"message": fmt.Sprintf("Successfully uploaded %d records", count),
		"count":   count,
	})
}

// HandleSales returns the filtered records as a JSON array.
func (h *APIHandlers) HandleSales(w http.ResponseWriter, r *http.Request) {
	spec := parseFilterSpec(r)
	errors.WriteJSON(w, h.sales.Records(spec))
}

// HandleMetrics returns summary metrics over the filtered view.
func (h *APIHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	spec := parseFilterSpec(r)
	errors.WriteJSON(w, h.sales.Metrics(spec))
}

// HandleFilterOptions returns the distinct values of the unfiltered dataset.
func (h *APIHandlers) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, h.sales.FilterOptions())
}

// HandleClear empties the dataset.
func (h *APIHandlers) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.sales.Clear()
	errors.WriteJSON(w, map[string]any{
		"message": "All sales data cleared successfully",
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteJSON(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, h.sales.Stats())
}

func parseFilterSpec(r *http.Request) models.FilterSpec {
	q := r.URL.Query()
	return models.FilterSpec{
		DateRange:    q.Get("dateRange"),
		DateFrom:     q.Get("dateFrom"),
		DateTo:       q.Get("dateTo"),
		City:         q.Get("city"),
		Manufacturer: q.Get("manufacturer"),
		Category:     q.Get("category"),
		Product:      q.Get("product"),
		Search:       q.Get("search"),
	}
}

func allowedUploadType(filename, mimeType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xls", ".xlsx":
		return true
	}
	for _, allowed := range allowedUploadMimeTypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}
