package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/ingest"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/store"
)

// Sales owns the upload pipeline and all queries over the current dataset:
// decode, normalize, replace, filter, aggregate.
type Sales struct {
	store  *store.Store
	logger *slog.Logger
}

func NewSales(logger *slog.Logger) *Sales {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sales{
		store:  store.New(),
		logger: logger,
	}
}

// SetData replaces the dataset directly with already-normalized records.
func (s *Sales) SetData(records []models.SalesRecord) {
	s.store.ReplaceAll(records)
}

// Upload decodes and normalizes an uploaded file and replaces the dataset
// with the surviving rows. A structurally invalid file aborts before any
// store mutation; individual malformed rows are dropped and counted. Returns
// the number of records stored.
func (s *Sales) Upload(ctx context.Context, data []byte, filename, mimeType string) (int, error) {
	start := time.Now()

	headers, rows, err := ingest.Decode(data, filename, mimeType)
	if err != nil {
		return 0, err
	}

	if err := ingest.ValidateColumnCount(headers); err != nil {
		return 0, err
	}
	if err := ingest.ValidateHeaders(headers); err != nil {
		return 0, err
	}

	records, dropped, err := ingest.NormalizeRows(ctx, headers, rows)
	if err != nil {
		return 0, fmt.Errorf("normalize rows: %w", err)
	}

	if len(records) == 0 {
		return 0, errors.Validation("No valid records found in uploaded file")
	}

	inserted := s.store.ReplaceAll(records)

	s.logger.Info("upload processed",
		"filename", filename,
		"rows", len(rows),
		"stored", len(inserted),
		"dropped", dropped,
		"duration", time.Since(start),
	)

	return len(inserted), nil
}

// LoadSeedFile ingests a local export at startup so the dashboard has data
// before the first upload.
func (s *Sales) LoadSeedFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	count, err := s.Upload(ctx, data, filepath.Base(path), "")
	if err != nil {
		return fmt.Errorf("ingest seed file: %w", err)
	}

	s.logger.Info("seed data loaded", "path", path, "records", count)
	return nil
}

// Records returns the filtered view of the current dataset.
func (s *Sales) Records(spec models.FilterSpec) []models.SalesRecord {
	return ApplyFilters(s.store.All(), spec)
}

// Metrics computes summary metrics over the filtered view.
func (s *Sales) Metrics(spec models.FilterSpec) models.Metrics {
	return ComputeMetrics(s.Records(spec))
}

// FilterOptions lists the distinct categorical values of the unfiltered
// dataset, in order of first appearance.
func (s *Sales) FilterOptions() models.FilterOptions {
	records := s.store.All()
	return models.FilterOptions{
		Cities:        DistinctValues(records, func(r models.SalesRecord) string { return r.CityName }),
		Manufacturers: DistinctValues(records, func(r models.SalesRecord) string { return r.ManufacturerName }),
		Categories:    DistinctValues(records, func(r models.SalesRecord) string { return r.Category }),
		Products:      DistinctValues(records, func(r models.SalesRecord) string { return r.ItemName }),
	}
}

// Clear empties the dataset.
func (s *Sales) Clear() {
	s.store.Clear()
}

func (s *Sales) Count() int {
	return s.store.Len()
}

// Stats exposes dataset shape for monitoring.
func (s *Sales) Stats() map[string]any {
	opts := s.FilterOptions()
	return map[string]any{
		"record_count":  s.store.Len(),
		"cities":        len(opts.Cities),
		"manufacturers": len(opts.Manufacturers),
		"categories":    len(opts.Categories),
		"products":      len(opts.Products),
	}
}
