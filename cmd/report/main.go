// Command report generates the narrative sales and technical reports from
// the configured data source and prints them to stdout, with an optional
// per-cohort product breakdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/GiovanoMP/projeto-kore-data/internal/churn"
	"github.com/GiovanoMP/projeto-kore-data/internal/config"
	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
	"github.com/GiovanoMP/projeto-kore-data/internal/pkg/logger"
	"github.com/GiovanoMP/projeto-kore-data/internal/report"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	kind := flag.String("kind", "sales", "report to generate: sales, technical or both")
	cohorts := flag.Bool("cohorts", false, "append the per-cohort product breakdown")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.Timeout())
	ds, err := dataset.Load(ctx, cfg.Data)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	ch := churn.New(ds)
	gen := report.NewGenerator(ds, ch, cfg.Report)

	switch *kind {
	case "sales":
		fmt.Print(gen.SalesReport(ds.View()).Render())
	case "technical":
		fmt.Print(gen.TechnicalReport().Render())
	case "both":
		fmt.Print(gen.SalesReport(ds.View()).Render())
		fmt.Println()
		fmt.Print(gen.TechnicalReport().Render())
	default:
		log.Fatalf("Unknown report kind %q (want sales, technical or both)", *kind)
	}

	if *cohorts {
		printCohortProducts(ch, cfg.Indicators.TopProducts)
	}
}

func printCohortProducts(ch *churn.Engine, topN int) {
	bar := progressbar.NewOptions(len(churn.Windows),
		progressbar.OptionSetDescription("Analyzing cohorts"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	type result struct {
		window churn.Window
		report churn.ProductReport
	}
	results := make([]result, 0, len(churn.Windows))
	for _, w := range churn.Windows {
		results = append(results, result{window: w, report: ch.Products(w, topN)})
		bar.Add(1)
	}

	fmt.Println("\nCohort Product Breakdown")
	fmt.Println("========================")
	for _, res := range results {
		fmt.Printf("\nWindow %s (%d customers)\n", res.window.ID, res.report.Customers)
		for _, p := range res.report.TopPurchased {
			fmt.Printf("  bought   %-12s %6d units\n", p.Code, p.UnitsSold)
		}
		for _, p := range res.report.ReturnRates {
			if p.Anomaly {
				fmt.Printf("  returned %-12s %6d units (no recorded purchase)\n", p.Code, p.Returned)
				continue
			}
			fmt.Printf("  returned %-12s %6d units (rate %.2f)\n", p.Code, p.Returned, p.ReturnRate.Float64)
		}
	}
}
