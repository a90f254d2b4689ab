package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// readCSVTable parses one CSV source into a rawTable. The reader is consumed
// fully. An input with no header is a missing-source condition; a header with
// no data rows is the distinct empty-source condition.
func readCSVTable(name string, r io.Reader) (*rawTable, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s table: %w", name, ErrEmptySource)
	}
	if err != nil {
		return nil, fmt.Errorf("%s table: read header: %w", name, err)
	}

	t := &rawTable{name: name, header: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s table: read row: %w", name, err)
		}
		t.rows = append(t.rows, row)
	}

	if len(t.rows) == 0 {
		return nil, fmt.Errorf("%s table: %w", name, ErrEmptySource)
	}
	return t, nil
}
