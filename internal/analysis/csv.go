package analysis

import (
	"encoding/json"
	"strings"
)

// CSV renders the chart data for download. Every field is JSON-encoded,
// which quotes strings and leaves numbers bare; rows are CRLF-joined.
func (d ChartData) CSV() string {
	rows := make([]string, len(d))
	for i, row := range d {
		fields := make([]string, len(row))
		for j, field := range row {
			raw, err := json.Marshal(field)
			if err != nil {
				raw = []byte(`""`)
			}
			fields[j] = string(raw)
		}
		rows[i] = strings.Join(fields, ",")
	}
	return strings.Join(rows, "\r\n")
}
