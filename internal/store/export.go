package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// WriteCSV writes a table as a header row plus one record per point.
func WriteCSV(w io.Writer, tbl Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Columns); err != nil {
		return err
	}
	record := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', 12, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type exportData struct {
	Run     Run                  `json:"run"`
	Columns []string             `json:"columns"`
	Points  map[string][]float64 `json:"points"`
}

// WriteJSON writes a run and its table as one indented JSON document,
// points keyed by column name.
func WriteJSON(w io.Writer, run Run, tbl Table) error {
	data := exportData{Run: run, Columns: tbl.Columns, Points: make(map[string][]float64, len(tbl.Columns))}
	for j, col := range tbl.Columns {
		vals := make([]float64, len(tbl.Rows))
		for i, row := range tbl.Rows {
			vals[i] = row[j]
		}
		data.Points[col] = vals
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
