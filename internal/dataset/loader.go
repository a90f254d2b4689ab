package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GiovanoMP/projeto-kore-data/internal/config"
	"github.com/GiovanoMP/projeto-kore-data/internal/pkg/logger"
)

// Load builds the Dataset from whichever source the configuration selects.
// A missing or empty table is fatal here: the dashboard never starts with a
// partial dataset.
func Load(ctx context.Context, cfg config.DataConfig) (*Dataset, error) {
	switch cfg.Type {
	case "", "local":
		return loadFromOpener(ctx, cfg, openLocal(cfg.LocalPath))
	case "s3":
		opener, err := openS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return loadFromOpener(ctx, cfg, opener)
	case "postgres":
		return loadFromPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown data source type %q", cfg.Type)
	}
}

// opener resolves a logical table file name to its content.
type opener func(ctx context.Context, name string) (io.ReadCloser, error)

func loadFromOpener(ctx context.Context, cfg config.DataConfig, open opener) (*Dataset, error) {
	readTable := func(name string) (*rawTable, error) {
		rc, err := open(ctx, name)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return readCSVTable(name, rc)
	}

	customers, err := readTable(cfg.Files.Customers)
	if err != nil {
		return nil, err
	}
	items, err := readTable(cfg.Files.Items)
	if err != nil {
		return nil, err
	}
	products, err := readTable(cfg.Files.Products)
	if err != nil {
		return nil, err
	}

	// Segmentation table is optional: absence is fine, corruption is not.
	var segments *rawTable
	if cfg.Files.Segments != "" {
		segments, err = readTable(cfg.Files.Segments)
		if err != nil {
			logger.Warn("segmentation table unavailable, continuing without it",
				"table", cfg.Files.Segments, "error", err)
			segments = nil
		}
	}

	return build(customers, items, products, segments)
}

// openLocal reads table files from a directory on disk.
func openLocal(dir string) opener {
	return func(_ context.Context, name string) (io.ReadCloser, error) {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s table (%s): %w", name, path, ErrMissingSource)
		}
		if err != nil {
			return nil, fmt.Errorf("%s table: %w", name, err)
		}
		return f, nil
	}
}
