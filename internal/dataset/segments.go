package dataset

import (
	"encoding/json"
	"strconv"
	"strings"
)

// buildSegments folds the optional segmentation table into the dataset.
// Rows referencing unknown customers are still kept; the table is consumed
// on its own, not joined into line items.
func buildSegments(ds *Dataset, segments *rawTable) error {
	si := mapColumns(segments.header)
	if err := si.require(segments.name, FieldCustomerID, FieldSegmentID); err != nil {
		return err
	}
	for _, row := range segments.rows {
		id, ok := parseCustomerID(si.get(row, FieldCustomerID))
		if !ok {
			ds.DroppedRows++
			continue
		}
		seg := Segment{CustomerID: id}
		if v, err := strconv.Atoi(si.get(row, FieldSegmentID)); err == nil {
			seg.SegmentID = v
		}
		seg.RecommendedProducts = ParseProductList(si.get(row, FieldRecommended))
		ds.Segments[id] = seg
	}
	return nil
}

// ParseProductList parses a serialized product-code list without evaluating
// it as code. The segmentation export stores Python-style lists
// ("['22423', '85123A']"); JSON arrays and bare comma-separated values are
// accepted too. Malformed input degrades to an empty list.
func ParseProductList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// JSON array first: covers ["a","b"] exports directly.
	var arr []string
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		return trimAll(arr)
	}

	// Python-style list: strip brackets, split, strip per-element quotes.
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, `'"`)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
