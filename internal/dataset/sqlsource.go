package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/GiovanoMP/projeto-kore-data/internal/config"
	"github.com/GiovanoMP/projeto-kore-data/internal/pkg/logger"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// loadFromPostgres reads the tables from the PostgreSQL database the
// original pipeline populated. Table names are the configured file names
// minus the .csv suffix (clientes, itens_fatura, produtos).
func loadFromPostgres(ctx context.Context, cfg config.DataConfig) (*Dataset, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("postgres source selected but database_url is empty")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	logger.Info("connected to postgres source")

	customers, err := queryTable(ctx, db, cfg.Files.Customers)
	if err != nil {
		return nil, err
	}
	items, err := queryTable(ctx, db, cfg.Files.Items)
	if err != nil {
		return nil, err
	}
	products, err := queryTable(ctx, db, cfg.Files.Products)
	if err != nil {
		return nil, err
	}

	var segments *rawTable
	if cfg.Files.Segments != "" {
		segments, err = queryTable(ctx, db, cfg.Files.Segments)
		if err != nil {
			logger.Warn("segmentation table unavailable, continuing without it", "error", err)
			segments = nil
		}
	}

	return build(customers, items, products, segments)
}

// queryTable selects a whole table into a rawTable so the normalizer treats
// every source identically. Cell values go through their string form; the
// normalizer owns all type coercion.
func queryTable(ctx context.Context, db *sql.DB, name string) (*rawTable, error) {
	table := strings.TrimSuffix(name, ".csv")
	if !identifierRe.MatchString(table) {
		return nil, fmt.Errorf("%s table: invalid table name", name)
	}

	rows, err := db.QueryContext(ctx, `SELECT * FROM `+pq.QuoteIdentifier(table))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P01" { // undefined_table
			return nil, fmt.Errorf("%s table: %w", table, ErrMissingSource)
		}
		return nil, fmt.Errorf("%s table: query: %w", table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s table: columns: %w", table, err)
	}

	t := &rawTable{name: table, header: header}
	vals := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%s table: scan: %w", table, err)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = cellString(v)
		}
		t.rows = append(t.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s table: rows: %w", table, err)
	}

	if len(t.rows) == 0 {
		return nil, fmt.Errorf("%s table: %w", table, ErrEmptySource)
	}
	return t, nil
}

// cellString renders a scanned database value in the string form the
// normalizer expects. The driver hands back time.Time for timestamp columns
// and []byte for text/numeric ones.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
