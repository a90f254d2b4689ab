// Package report builds the narrative sales and technical reports. The
// dashboard's original report pages carried hand-written numbers; here every
// figure is computed from the live dataset at generation time, with the
// prose templated around the results.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GiovanoMP/projeto-kore-data/internal/churn"
	"github.com/GiovanoMP/projeto-kore-data/internal/config"
	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
	"github.com/GiovanoMP/projeto-kore-data/internal/indicator"
)

// Report is one generated narrative document.
type Report struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// Section is one titled block of the report.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Render flattens the report to plain text for the CLI.
func (r Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", r.Title, strings.Repeat("=", len(r.Title)))
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "%s\n%s\n%s\n\n", s.Title, strings.Repeat("-", len(s.Title)), s.Body)
	}
	fmt.Fprintf(&b, "Generated %s (report %s)\n", r.GeneratedAt.Format(time.RFC3339), r.ID)
	return b.String()
}

// Generator assembles reports from the base dataset and churn engine.
type Generator struct {
	ds    *dataset.Dataset
	churn *churn.Engine
	cfg   config.ReportConfig
}

// NewGenerator creates a report generator.
func NewGenerator(ds *dataset.Dataset, ch *churn.Engine, cfg config.ReportConfig) *Generator {
	return &Generator{ds: ds, churn: ch, cfg: cfg}
}

func (g *Generator) money(v float64) string {
	return fmt.Sprintf("%s%.2f", g.cfg.Currency, v)
}

// SalesReport computes the sales analysis narrative over a view (usually
// the full dataset, optionally a filtered one).
func (g *Generator) SalesReport(view []dataset.LineItem) Report {
	r := Report{
		ID:          uuid.New(),
		Title:       "Sales Data Analysis Report",
		GeneratedAt: time.Now().UTC(),
	}
	if len(view) == 0 {
		r.Sections = append(r.Sections, Section{
			Title: "No Data",
			Body:  "The selected filters produced an empty view; no analysis is available.",
		})
		return r
	}

	r.Sections = append(r.Sections, g.introSection(view))
	r.Sections = append(r.Sections, g.revenueSections(view)...)
	r.Sections = append(r.Sections, g.productSections(view)...)
	r.Sections = append(r.Sections, g.customerSections(view)...)
	r.Sections = append(r.Sections, g.churnSection())
	return r
}

func (g *Generator) introSection(view []dataset.LineItem) Section {
	name := g.cfg.CompanyName
	if name == "" {
		name = "the company"
	}
	return Section{
		Title: "Overview",
		Body: fmt.Sprintf(
			"This report analyzes %d invoice line items from %s, covering %d customers "+
				"across the period %s to %s. The goal is to surface sales patterns, customer "+
				"purchasing behavior and improvement areas to grow revenue and retention.",
			len(view), name, indicator.UniqueCustomers(view),
			g.ds.MinDate.Format("2006-01-02"), g.ds.MaxDate.Format("2006-01-02")),
	}
}

func (g *Generator) revenueSections(view []dataset.LineItem) []Section {
	var out []Section

	total := indicator.TotalRevenue(view)
	byCountry := indicator.RevenueByCountry(view)
	body := fmt.Sprintf("Total revenue for the period was %s.", g.money(total))
	if len(byCountry) > 0 {
		top := byCountry[0]
		body += fmt.Sprintf(" The top market was %s with %s, indicating that most sales "+
			"come from that base.", top.Country, g.money(top.Revenue))
		if len(byCountry) > 3 {
			var others []string
			for _, c := range byCountry[1:4] {
				others = append(others, c.Country)
			}
			body += fmt.Sprintf(" %s also contributed significantly.", strings.Join(others, ", "))
		}
	}
	out = append(out, Section{Title: "Revenue by Country", Body: body})

	daily := indicator.DailyRevenue(view, time.Time{}, time.Time{})
	if len(daily) > 0 {
		peak := daily[0]
		for _, p := range daily {
			if p.Revenue > peak.Revenue {
				peak = p
			}
		}
		out = append(out, Section{
			Title: "Daily Revenue",
			Body: fmt.Sprintf("Daily revenue shows clear demand peaks. The strongest day was %s "+
				"with %s, a signal worth aligning promotions and stock allocation with.",
				peak.Date, g.money(peak.Revenue)),
		})
	}

	monthly := indicator.MonthlyRevenue(view)
	if len(monthly) > 0 {
		peak := monthly[0]
		for _, p := range monthly {
			if p.Revenue > peak.Revenue {
				peak = p
			}
		}
		out = append(out, Section{
			Title: "Monthly Revenue",
			Body: fmt.Sprintf("Monthly revenue follows a seasonal pattern. The strongest month "+
				"was %s %d at %s, underlining the weight of end-of-period campaigns.",
				peak.Month, peak.Year, g.money(peak.Revenue)),
		})
	}
	return out
}

func (g *Generator) productSections(view []dataset.LineItem) []Section {
	var out []Section

	top := indicator.TopProductsByQuantity(view, indicator.DefaultTopProducts)
	if len(top) > 0 {
		var lines []string
		for _, p := range top {
			lines = append(lines, fmt.Sprintf("- product %s: %d units", p.Code, p.UnitsSold))
		}
		out = append(out, Section{
			Title: "Best-Selling Products",
			Body: fmt.Sprintf("The leading product was %s with %d units sold. Top sellers:\n%s",
				top[0].Code, top[0].UnitsSold, strings.Join(lines, "\n")),
		})
	}

	returned := indicator.TopReturnedProducts(view, indicator.DefaultTopProducts)
	if len(returned) > 0 {
		var codes []string
		for i, p := range returned {
			if i == 3 {
				break
			}
			codes = append(codes, p.Code)
		}
		out = append(out, Section{
			Title: "Most-Returned Products",
			Body: fmt.Sprintf("Products %s lead the return ranking, suggesting quality or "+
				"description issues that deserve corrective action.", strings.Join(codes, ", ")),
		})
	}
	return out
}

func (g *Generator) customerSections(view []dataset.LineItem) []Section {
	var out []Section

	aov := indicator.AverageOrderValue(view)
	if aov.Valid {
		out = append(out, Section{
			Title: "Average Ticket",
			Body: fmt.Sprintf("The average value per line item was approximately %s. Upselling "+
				"and cross-selling strategies can raise this figure.", g.money(aov.Float64)),
		})
	}

	topCustomers := indicator.TopCustomers(view, 5)
	if len(topCustomers) > 0 {
		var lines []string
		for _, c := range topCustomers {
			lines = append(lines, fmt.Sprintf("- customer %d: %s", c.CustomerID, g.money(c.Total)))
		}
		out = append(out, Section{
			Title: "Top Customers",
			Body: fmt.Sprintf("The highest-spending customers contribute a large share of "+
				"revenue:\n%s\nLoyalty programs and personalized offers are effective levers "+
				"for retaining them.", strings.Join(lines, "\n")),
		})
	}
	return out
}

func (g *Generator) churnSection() Section {
	var lines []string
	for _, s := range g.churn.Summaries() {
		if s.Window.ID == churn.ActiveWindowID {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s days inactive: %d customers (%.1f%%)",
			s.Window.ID, s.Customers, s.ChurnPct))
	}
	return Section{
		Title: "Churn Cohorts",
		Body: fmt.Sprintf("Customers grouped by days since their last purchase, relative to "+
			"%s:\n%s", g.churn.ReferenceDate().Format("2006-01-02"), strings.Join(lines, "\n")),
	}
}

// TechnicalReport describes the data pipeline itself: table sizes, the rows
// normalization dropped, and the derived columns, mirroring the original
// technical write-up with live numbers.
func (g *Generator) TechnicalReport() Report {
	r := Report{
		ID:          uuid.New(),
		Title:       "Technical Report: Data Normalization and Pipeline",
		GeneratedAt: time.Now().UTC(),
	}
	r.Sections = append(r.Sections,
		Section{
			Title: "Dataset",
			Body: fmt.Sprintf("The normalized dataset holds %d line items, %d customers, %d "+
				"products and %d segmentation rows, spanning %s to %s.",
				len(g.ds.Items), len(g.ds.Customers), len(g.ds.Products), len(g.ds.Segments),
				g.ds.MinDate.Format("2006-01-02"), g.ds.MaxDate.Format("2006-01-02")),
		},
		Section{
			Title: "Cleaning and Transformation",
			Body: fmt.Sprintf("Column names were trimmed and mapped to canonical fields. "+
				"%d rows were dropped for unparseable invoice timestamps and %d for malformed "+
				"values. Derived columns: total_value (quantity x unit price), is_return "+
				"(negative quantity), price tier (cheap below 5, moderate 5 to 20, expensive "+
				"above 20) and the product category join.",
				g.ds.DroppedTimestamps, g.ds.DroppedRows),
		},
		Section{
			Title: "Architecture",
			Body: "Data flows one way: source tables are normalized once per session into an " +
				"immutable in-memory dataset; the filter engine derives transient views; the " +
				"indicator and churn engines compute aggregates on demand. No state is written " +
				"back and no intermediate aggregate is cached between interactions.",
		},
	)
	return r
}
