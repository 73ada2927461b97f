package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"lurl/internal/extract"
)

// WriteJSONLines streams one JSON object per record to w. Map keys come
// out sorted; consumers that care about column order use CSV.
func WriteJSONLines(w io.Writer, rs *extract.ResultSet) error {
	enc := json.NewEncoder(w)
	for i, rec := range rs.Records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("sink: encode record %d: %w", i, err)
		}
	}
	return nil
}
