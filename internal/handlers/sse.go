package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

// SSEHandlers push the current dashboard state to connected clients as
// datastar signal patches, so the UI refreshes without polling.
type SSEHandlers struct {
	sales  *services.Sales
	logger *slog.Logger
}

func NewSSEHandlers(sales *services.Sales, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		sales:  sales,
		logger: logger,
	}
}

// HandleDashboard streams the metrics and filter options for the requested
// filter view in one signal patch.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	spec := parseFilterSpec(r)
	signals, err := json.Marshal(map[string]any{
		"metrics":       h.sales.Metrics(spec),
		"filterOptions": h.sales.FilterOptions(),
		"recordCount":   h.sales.Count(),
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleMetrics streams only the metrics signal for the requested view.
func (h *SSEHandlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	spec := parseFilterSpec(r)
	signals, err := json.Marshal(map[string]models.Metrics{
		"metrics": h.sales.Metrics(spec),
	})
	if err != nil {
		h.logger.Error("marshal metrics signal", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
