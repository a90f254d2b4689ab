package dataset

import (
	"fmt"
	"strings"
)

// CanonicalField is a normalized column name used across all table sources.
// The original exports carry Portuguese headers (NumeroFatura, IDCliente...);
// re-exports of the same data use snake_case English. Both map here.
type CanonicalField string

const (
	FieldCustomerID CanonicalField = "customer_id"
	FieldCountry    CanonicalField = "country"

	FieldInvoiceID   CanonicalField = "invoice_id"
	FieldProductCode CanonicalField = "product_code"
	FieldQuantity    CanonicalField = "quantity"
	FieldInvoiceAt   CanonicalField = "invoice_timestamp"
	FieldUnitPrice   CanonicalField = "unit_price"
	FieldCategory    CanonicalField = "category"

	FieldSegmentID   CanonicalField = "segment_id"
	FieldRecommended CanonicalField = "recommended_products"
)

// columnAliases maps lowercase, trimmed header names to canonical fields.
// When multiple raw headers mean the same thing, they all map here.
var columnAliases = map[string]CanonicalField{
	// Customer ID
	"idcliente":   FieldCustomerID,
	"customer_id": FieldCustomerID,
	"customerid":  FieldCustomerID,

	// Country
	"pais":    FieldCountry,
	"país":    FieldCountry,
	"country": FieldCountry,

	// Invoice number
	"numerofatura": FieldInvoiceID,
	"invoice_id":   FieldInvoiceID,
	"invoiceno":    FieldInvoiceID,

	// Product code
	"codigoproduto": FieldProductCode,
	"product_code":  FieldProductCode,
	"stockcode":     FieldProductCode,

	// Quantity
	"quantidade": FieldQuantity,
	"quantity":   FieldQuantity,

	// Invoice timestamp
	"datafatura":        FieldInvoiceAt,
	"invoice_timestamp": FieldInvoiceAt,
	"invoicedate":       FieldInvoiceAt,

	// Unit price
	"precounitario": FieldUnitPrice,
	"preçounitario": FieldUnitPrice,
	"unit_price":    FieldUnitPrice,
	"unitprice":     FieldUnitPrice,

	// Category
	"categoria": FieldCategory,
	"category":  FieldCategory,

	// Segmentation table
	"segmento":             FieldSegmentID,
	"segment_id":           FieldSegmentID,
	"cluster":              FieldSegmentID,
	"produtosrecomendados": FieldRecommended,
	"recommended_products": FieldRecommended,
	"recomendacoes":        FieldRecommended,
}

// columnIndex maps canonical fields to their position in a header row.
type columnIndex map[CanonicalField]int

// mapColumns resolves a header row to canonical field positions. Header cells
// are trimmed before matching (exports frequently carry stray whitespace).
func mapColumns(header []string) columnIndex {
	idx := make(columnIndex)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := columnAliases[key]; ok {
			if _, dup := idx[field]; !dup {
				idx[field] = i
			}
		}
	}
	return idx
}

// require returns an error naming every missing field, or nil when all are
// present. A missing required column means the source is corrupt.
func (ci columnIndex) require(table string, fields ...CanonicalField) error {
	var missing []string
	for _, f := range fields {
		if _, ok := ci[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s table: missing required columns %s", table, strings.Join(missing, ", "))
	}
	return nil
}

// get returns the trimmed cell for a field, or "" when the field is unmapped
// or the row is short.
func (ci columnIndex) get(row []string, f CanonicalField) string {
	i, ok := ci[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// has reports whether the header mapped the given field.
func (ci columnIndex) has(f CanonicalField) bool {
	_, ok := ci[f]
	return ok
}
