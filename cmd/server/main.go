package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GiovanoMP/projeto-kore-data/internal/api"
	"github.com/GiovanoMP/projeto-kore-data/internal/config"
	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
	"github.com/GiovanoMP/projeto-kore-data/internal/pkg/logger"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func main() {
	log.Println("╔════════════════════════════════════════════════════════════╗")
	log.Println("║  Kore Data Analytics Server (cmd/server/main.go)          ║")
	log.Println("║  Retail sales indicators, filters and churn cohorts       ║")
	log.Println("╚════════════════════════════════════════════════════════════╝")

	// Load configuration
	cfg, err := config.LoadFromEnv("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	// Pre-flight check: verify the target port is available
	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", port)

	// Load and normalize the dataset once; everything downstream reads
	// from this in-memory base.
	loadCtx, cancel := context.WithTimeout(context.Background(), cfg.Data.Timeout())
	ds, err := dataset.Load(loadCtx, cfg.Data)
	cancel()
	if err != nil {
		if errors.Is(err, dataset.ErrMissingSource) || errors.Is(err, dataset.ErrEmptySource) {
			log.Fatalf("Dataset source unusable (%s backend): %v", cfg.Data.Type, err)
		}
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Dataset ready: %d line items, %d customers, %d products (period %s to %s)",
		len(ds.Items), len(ds.Customers), len(ds.Products),
		ds.MinDate.Format("2006-01-02"), ds.MaxDate.Format("2006-01-02"))

	server := api.NewServer(*cfg, ds)

	addr := fmt.Sprintf("%s:%d", host, port)
	go func() {
		log.Printf("Listening on http://%s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
