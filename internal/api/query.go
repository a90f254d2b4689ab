package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/GiovanoMP/projeto-kore-data/internal/filter"
)

const dateLayout = "2006-01-02"

// parseFilterSpec builds a filter spec from the shared query parameters:
// start, end (YYYY-MM-DD), country, price_tier, category, churn_window.
// Omitted parameters leave their filter inactive.
func parseFilterSpec(r *http.Request) (filter.Spec, error) {
	q := r.URL.Query()
	spec := filter.Spec{
		Country:     q.Get("country"),
		PriceTier:   q.Get("price_tier"),
		Category:    q.Get("category"),
		ChurnWindow: q.Get("churn_window"),
	}

	if v := q.Get("start"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter.Spec{}, fmt.Errorf("invalid start date %q (want YYYY-MM-DD)", v)
		}
		spec.Start = t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter.Spec{}, fmt.Errorf("invalid end date %q (want YYYY-MM-DD)", v)
		}
		spec.End = t
	}
	return spec, nil
}

// parseTopN reads the optional "top" parameter, falling back to def.
func parseTopN(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("top")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid top value %q (want a positive integer)", v)
	}
	return n, nil
}
