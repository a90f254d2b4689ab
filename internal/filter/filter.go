// Package filter turns a filter specification into a restricted view of the
// normalized line-item table. Every filter is a pure row predicate over
// attributes the dataset already carries, so filters commute and applying a
// spec twice equals applying it once.
package filter

import (
	"fmt"
	"time"

	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
)

// Sentinel option values. An empty string is treated the same as the
// sentinel so query parameters can simply be omitted.
const (
	CountryGlobal = "Global"
	None          = "none"
)

// Spec is the sidebar-driven filter specification.
type Spec struct {
	Start       time.Time `json:"start,omitempty"`
	End         time.Time `json:"end,omitempty"`
	Country     string    `json:"country,omitempty"`      // CountryGlobal = all
	PriceTier   string    `json:"price_tier,omitempty"`   // None = all
	Category    string    `json:"category,omitempty"`     // None = all
	ChurnWindow string    `json:"churn_window,omitempty"` // None = all
}

// CohortResolver maps a churn window ID to its member customer set. The
// churn engine provides it; keeping it a function avoids coupling the filter
// package to cohort computation.
type CohortResolver func(windowID string) (map[int64]struct{}, bool)

// Engine applies filter specs against an immutable base dataset.
type Engine struct {
	ds      *dataset.Dataset
	resolve CohortResolver
}

// NewEngine creates a filter engine over the base dataset. resolve may be
// nil when churn-window filtering is not wired.
func NewEngine(ds *dataset.Dataset, resolve CohortResolver) *Engine {
	return &Engine{ds: ds, resolve: resolve}
}

// Result is a filtered view plus any input-range warnings. Warnings never
// abort the computation; the view stays well-defined (possibly empty).
type Result struct {
	Items    []dataset.LineItem `json:"-"`
	Warnings []string           `json:"warnings,omitempty"`
}

// Apply restricts the base table to rows satisfying every active predicate.
// All original columns are preserved.
func (e *Engine) Apply(spec Spec) Result {
	var res Result

	if !spec.Start.IsZero() && !spec.End.IsZero() && spec.Start.After(spec.End) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("start date %s is after end date %s; result will be empty",
				spec.Start.Format("2006-01-02"), spec.End.Format("2006-01-02")))
	}

	var cohort map[int64]struct{}
	filterCohort := false
	if spec.ChurnWindow != "" && spec.ChurnWindow != None {
		if e.resolve == nil {
			res.Warnings = append(res.Warnings, "churn window filter requested but no cohort resolver is configured")
		} else if members, ok := e.resolve(spec.ChurnWindow); ok {
			cohort = members
			filterCohort = true
		} else {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("unknown churn window %q; filter ignored", spec.ChurnWindow))
		}
	}

	filterTier := spec.PriceTier != "" && spec.PriceTier != None
	if filterTier {
		switch dataset.PriceTier(spec.PriceTier) {
		case dataset.TierCheap, dataset.TierModerate, dataset.TierExpensive:
		default:
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("unknown price tier %q; filter ignored", spec.PriceTier))
			filterTier = false
		}
	}

	filterCountry := spec.Country != "" && spec.Country != CountryGlobal
	filterCategory := spec.Category != "" && spec.Category != None

	// Date bounds compare at calendar-date granularity, inclusive on both
	// ends, matching the dashboard's date pickers.
	var startDay, endDayExcl time.Time
	if !spec.Start.IsZero() {
		startDay = truncateDay(spec.Start)
	}
	if !spec.End.IsZero() {
		endDayExcl = truncateDay(spec.End).AddDate(0, 0, 1)
	}

	items := make([]dataset.LineItem, 0, len(e.ds.Items))
	for _, it := range e.ds.Items {
		if !startDay.IsZero() && it.InvoiceAt.Before(startDay) {
			continue
		}
		if !endDayExcl.IsZero() && !it.InvoiceAt.Before(endDayExcl) {
			continue
		}
		if filterCountry && it.Country != spec.Country {
			continue
		}
		if filterTier && string(it.Tier) != spec.PriceTier {
			continue
		}
		if filterCategory && it.Category != spec.Category {
			continue
		}
		if filterCohort {
			if _, ok := cohort[it.CustomerID]; !ok {
				continue
			}
		}
		items = append(items, it)
	}

	res.Items = items
	return res
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
