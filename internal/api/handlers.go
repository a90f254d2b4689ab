package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GiovanoMP/projeto-kore-data/internal/churn"
	"github.com/GiovanoMP/projeto-kore-data/internal/config"
	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
	"github.com/GiovanoMP/projeto-kore-data/internal/filter"
	"github.com/GiovanoMP/projeto-kore-data/internal/indicator"
	"github.com/GiovanoMP/projeto-kore-data/internal/pkg/httputil"
	"github.com/GiovanoMP/projeto-kore-data/internal/report"
)

// Handlers holds the engines behind the HTTP endpoints.
type Handlers struct {
	cfg     config.Config
	ds      *dataset.Dataset
	filters *filter.Engine
	churn   *churn.Engine
	reports *report.Generator
	started time.Time
}

// NewHandlers wires the handlers to a loaded dataset and its engines.
func NewHandlers(cfg config.Config, ds *dataset.Dataset, fe *filter.Engine, ch *churn.Engine, gen *report.Generator) *Handlers {
	return &Handlers{
		cfg:     cfg,
		ds:      ds,
		filters: fe,
		churn:   ch,
		reports: gen,
		started: time.Now(),
	}
}

// view applies the request's filter parameters, writing a 400 and returning
// ok=false when a parameter is malformed.
func (h *Handlers) view(w http.ResponseWriter, r *http.Request) (filter.Result, bool) {
	spec, err := parseFilterSpec(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return filter.Result{}, false
	}
	return h.filters.Apply(spec), true
}

// HealthCheck reports service liveness and dataset shape.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"status":     "ok",
		"uptime":     time.Since(h.started).Round(time.Second).String(),
		"line_items": len(h.ds.Items),
		"customers":  len(h.ds.Customers),
		"products":   len(h.ds.Products),
		"period": map[string]string{
			"start": h.ds.MinDate.Format(dateLayout),
			"end":   h.ds.MaxDate.Format(dateLayout),
		},
	})
}

// GetFilterOptions lists the legal values for each sidebar filter.
func (h *Handlers) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	windows := []string{filter.None, churn.ActiveWindowID}
	for _, win := range churn.Windows {
		windows = append(windows, win.ID)
	}
	httputil.OK(w, map[string]any{
		"countries":  append([]string{filter.CountryGlobal}, h.ds.Countries()...),
		"categories": append([]string{filter.None}, h.ds.Categories()...),
		"price_tiers": []string{
			filter.None,
			string(dataset.TierCheap),
			string(dataset.TierModerate),
			string(dataset.TierExpensive),
		},
		"churn_windows": windows,
		"date_range": map[string]string{
			"min": h.ds.MinDate.Format(dateLayout),
			"max": h.ds.MaxDate.Format(dateLayout),
		},
	})
}

// GetDashboard returns the headline indicators for the current filter in a
// single call.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	v := res.Items

	httputil.OK(w, map[string]any{
		"warnings":                  res.Warnings,
		"rows":                      len(v),
		"total_revenue":             indicator.TotalRevenue(v),
		"unique_customers":          indicator.UniqueCustomers(v),
		"transactions":              indicator.TransactionCount(v),
		"transactions_with_returns": indicator.TransactionsWithReturns(v),
		"average_order_value":       nullFloat(indicator.AverageOrderValue(v)),
		"revenue_by_country":        indicator.RevenueByCountry(v),
		"monthly_revenue":           indicator.MonthlyRevenue(v),
		"top_products":              indicator.TopProductsByQuantity(v, h.cfg.Indicators.TopProducts),
		"churn_summary":             h.churn.Summaries(),
	})
}

// GetRevenue returns the total revenue for the current filter.
func (h *Handlers) GetRevenue(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	httputil.OK(w, map[string]any{
		"warnings":      res.Warnings,
		"total_revenue": indicator.TotalRevenue(res.Items),
	})
}

// GetDailyRevenue returns revenue per calendar day. The filter's own date
// bounds already restrict the view, so no extra window is applied here.
func (h *Handlers) GetDailyRevenue(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	httputil.OK(w, map[string]any{
		"warnings": res.Warnings,
		"daily":    indicator.DailyRevenue(res.Items, time.Time{}, time.Time{}),
	})
}

// GetMonthlyRevenue returns revenue per calendar month, chronological.
func (h *Handlers) GetMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	httputil.OK(w, map[string]any{
		"warnings": res.Warnings,
		"monthly":  indicator.MonthlyRevenue(res.Items),
		"trend":    indicator.SalesTrend(res.Items),
	})
}

// GetSeasonalVariation returns revenue per month-of-year across all years.
func (h *Handlers) GetSeasonalVariation(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	httputil.OK(w, map[string]any{
		"warnings": res.Warnings,
		"seasonal": indicator.SeasonalVariation(res.Items),
	})
}

// GetRevenueByCountry returns per-country revenue, descending.
func (h *Handlers) GetRevenueByCountry(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	httputil.OK(w, map[string]any{
		"warnings":  res.Warnings,
		"countries": indicator.RevenueByCountry(res.Items),
	})
}

// GetCustomerIndicators returns customer counts, top spenders and purchase
// frequency for the current filter.
func (h *Handlers) GetCustomerIndicators(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	topN, err := parseTopN(r, h.cfg.Indicators.TopCustomers)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.OK(w, map[string]any{
		"warnings":           res.Warnings,
		"unique_customers":   indicator.UniqueCustomers(res.Items),
		"top_customers":      indicator.TopCustomers(res.Items, topN),
		"purchase_frequency": indicator.PurchaseFrequency(res.Items),
	})
}

// GetProductIndicators returns the product leaderboards for the current filter.
func (h *Handlers) GetProductIndicators(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	topN, err := parseTopN(r, h.cfg.Indicators.TopProducts)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.OK(w, map[string]any{
		"warnings":        res.Warnings,
		"top_by_quantity": indicator.TopProductsByQuantity(res.Items, topN),
		"top_by_revenue":  indicator.TopProductsByRevenue(res.Items, topN),
		"top_returned":    indicator.TopReturnedProducts(res.Items, topN),
	})
}

// GetTransactionIndicators returns invoice-level counts and the average
// order value for the current filter.
func (h *Handlers) GetTransactionIndicators(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	httputil.OK(w, map[string]any{
		"warnings":                  res.Warnings,
		"transactions":              indicator.TransactionCount(res.Items),
		"transactions_with_returns": indicator.TransactionsWithReturns(res.Items),
		"average_order_value":       nullFloat(indicator.AverageOrderValue(res.Items)),
	})
}

// GetChurnSummary returns cohort sizes for every inactivity window.
func (h *Handlers) GetChurnSummary(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"reference_date": h.churn.ReferenceDate().Format(dateLayout),
		"windows":        h.churn.Summaries(),
	})
}

// GetChurnProducts returns product aggregates restricted to one cohort.
func (h *Handlers) GetChurnProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "window")
	win, ok := churn.WindowByID(id)
	if !ok {
		httputil.NotFound(w, "unknown churn window: "+id)
		return
	}
	topN, err := parseTopN(r, h.cfg.Indicators.TopProducts)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.OK(w, h.churn.Products(win, topN))
}

// GetSegments returns every customer segmentation row.
func (h *Handlers) GetSegments(w http.ResponseWriter, r *http.Request) {
	segs := make([]dataset.Segment, 0, len(h.ds.Segments))
	for _, id := range h.ds.SegmentCustomerIDs() {
		segs = append(segs, h.ds.Segments[id])
	}
	httputil.OK(w, map[string]any{"segments": segs})
}

// GetCustomerSegment returns one customer's segment and recommendations.
func (h *Handlers) GetCustomerSegment(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "customerID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httputil.BadRequest(w, "invalid customer id: "+raw)
		return
	}
	seg, ok := h.ds.Segments[id]
	if !ok {
		httputil.NotFound(w, "no segment for customer "+raw)
		return
	}
	httputil.OK(w, seg)
}

// GetSalesReport generates the sales narrative over the current filter.
func (h *Handlers) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	res, ok := h.view(w, r)
	if !ok {
		return
	}
	httputil.OK(w, h.reports.SalesReport(res.Items))
}

// GetTechnicalReport generates the pipeline description report.
func (h *Handlers) GetTechnicalReport(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, h.reports.TechnicalReport())
}

// nullFloat renders a nullable float as JSON null when invalid; the raw
// sql.NullFloat64 marshals as an object, which the frontend doesn't want.
func nullFloat(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
