package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"lurl/internal/extract"
)

// WriteCSV writes a header row followed by one row per record, in the
// result set's column order.
func WriteCSV(w io.Writer, rs *extract.ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rs.Columns); err != nil {
		return fmt.Errorf("sink: write header: %w", err)
	}
	for i := range rs.Records {
		if err := cw.Write(rs.Row(i)); err != nil {
			return fmt.Errorf("sink: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile persists a result set to path under the destination policy.
func WriteCSVFile(path string, rs *extract.ResultSet, overwrite bool) error {
	f, err := create(path, overwrite)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSVFile loads a result set previously written by WriteCSVFile. The
// empty-string encoding of missing fields survives the round trip.
func ReadCSVFile(path string) (*extract.ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sink: read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sink: %s has no header row", path)
	}

	rs := &extract.ResultSet{Columns: rows[0]}
	for _, row := range rows[1:] {
		rec := make(extract.Record, len(rs.Columns))
		for j, name := range rs.Columns {
			rec[name] = row[j]
		}
		rs.Records = append(rs.Records, rec)
	}
	return rs, nil
}
