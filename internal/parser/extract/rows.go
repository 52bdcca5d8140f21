package extract

import (
	"strings"

	"questionnaire/internal/model"
)

// rowsFromRecords turns a header record plus data records into rows. Leading
// records that are entirely blank are skipped before the header. Missing cells
// become empty strings, blank header columns are ignored, and for duplicate
// headers the first column wins.
func rowsFromRecords(records [][]string) []model.Row {
	start := 0
	for start < len(records) && blankRecord(records[start]) {
		start++
	}
	if start == len(records) {
		return []model.Row{}
	}

	header := make([]string, len(records[start]))
	for i, h := range records[start] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]model.Row, 0, len(records)-start-1)
	for _, rec := range records[start+1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(model.Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if _, dup := row[name]; dup {
				continue
			}
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			row[name] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
