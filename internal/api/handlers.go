package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopspectrum/spectrum/internal/analytics"
	"github.com/shopspectrum/spectrum/internal/common"
	"github.com/shopspectrum/spectrum/internal/model"
	"github.com/shopspectrum/spectrum/internal/recommend"
)

// defaultTopK is the recommendation count the original dashboard shows.
const defaultTopK = 5

// Handlers holds the read-only query state behind every endpoint.
type Handlers struct {
	dataset *analytics.Dataset
	rfm     []model.RFMRecord
	engine  *recommend.Engine
}

// NewHandlers creates the handler set.
func NewHandlers(dataset *analytics.Dataset, rfm []model.RFMRecord, engine *recommend.Engine) *Handlers {
	return &Handlers{
		dataset: dataset,
		rfm:     rfm,
		engine:  engine,
	}
}

type metricsResponse struct {
	Country           string   `json:"country"`
	Revenue           float64  `json:"revenue"`
	Orders            int      `json:"orders"`
	AverageOrderValue *float64 `json:"average_order_value"`
	Note              string   `json:"note,omitempty"`
	Customers         int      `json:"customers"`
}

type trendPoint struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

type topProduct struct {
	StockCode   string `json:"stock_code"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

type recommendationsResponse struct {
	StockCode   string               `json:"stock_code"`
	Description string               `json:"description"`
	Items       []recommendationItem `json:"items"`
}

type recommendationItem struct {
	StockCode   string  `json:"stock_code"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type segmentRow struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency_days"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
	Cluster    *int    `json:"cluster"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Metrics returns the headline metrics for an optionally country-filtered
// view. An empty view returns zeros for the counts and a null average
// order value with a note, so a caller can tell "no data" from "0".
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	view := h.dataset.FilterCountry(country)
	if country == "" {
		country = analytics.AllCountries
	}

	resp := metricsResponse{
		Country:   country,
		Revenue:   view.TotalRevenue(),
		Orders:    view.OrderCount(),
		Customers: view.DistinctCustomers(),
	}

	aov, err := view.AverageOrderValue()
	switch {
	case err == nil:
		resp.AverageOrderValue = &aov
	case errors.Is(err, common.ErrEmptyDataset):
		resp.Note = "average order value undefined over zero orders"
	default:
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Trend returns monthly revenue for an optionally filtered view. Months
// with no transactions are omitted.
func (h *Handlers) Trend(w http.ResponseWriter, r *http.Request) {
	view := h.dataset.FilterCountry(r.URL.Query().Get("country"))

	points := view.MonthlyTrend()
	out := make([]trendPoint, len(points))
	for i, p := range points {
		out[i] = trendPoint{
			Month: p.Month.Format("2006-01"),
			Total: p.Total,
		}
	}

	respondJSON(w, http.StatusOK, out)
}

// TopProducts returns the best sellers by total quantity.
func (h *Handlers) TopProducts(w http.ResponseWriter, r *http.Request) {
	view := h.dataset.FilterCountry(r.URL.Query().Get("country"))

	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, errors.New("n must be a positive integer"))
			return
		}
		n = parsed
	}

	ranks := view.TopItems(n)
	out := make([]topProduct, len(ranks))
	for i, rank := range ranks {
		out[i] = topProduct{
			StockCode:   rank.StockCode,
			Description: rank.Description,
			Quantity:    rank.Quantity,
		}
	}

	respondJSON(w, http.StatusOK, out)
}

// Recommendations returns the top-K products similar to the one in the
// URL. An unknown stock code is a 404, not a server failure.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	k := defaultTopK
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, errors.New("k must be a positive integer"))
			return
		}
		k = parsed
	}

	recs, err := h.engine.Recommend(code, k)
	if err != nil {
		if errors.Is(err, common.ErrUnknownProduct) {
			respondError(w, http.StatusNotFound, err)
			return
		}
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	resp := recommendationsResponse{
		StockCode:   code,
		Description: h.engine.Describe(code),
		Items:       make([]recommendationItem, len(recs)),
	}
	for i, rec := range recs {
		resp.Items[i] = recommendationItem{
			StockCode:   rec.StockCode,
			Description: rec.Description,
			Score:       rec.Score,
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// Segments returns the RFM table with cluster labels where assigned.
func (h *Handlers) Segments(w http.ResponseWriter, _ *http.Request) {
	out := make([]segmentRow, len(h.rfm))
	for i, rec := range h.rfm {
		row := segmentRow{
			CustomerID: rec.CustomerID,
			Recency:    rec.RecencyDays,
			Frequency:  rec.Frequency,
			Monetary:   rec.Monetary,
		}
		if rec.Labeled() {
			cluster := rec.Cluster
			row.Cluster = &cluster
		}
		out[i] = row
	}

	respondJSON(w, http.StatusOK, out)
}

// Countries returns the distinct countries for the dashboard filter.
func (h *Handlers) Countries(w http.ResponseWriter, _ *http.Request) {
	countries := append([]string{analytics.AllCountries}, h.dataset.Countries()...)
	respondJSON(w, http.StatusOK, countries)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, errorResponse{Error: err.Error()})
}
