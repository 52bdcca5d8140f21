package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"questionnaire/internal/model"
)

var rowOptionDelimRe = regexp.MustCompile(`[,;|]`)

// TabularConverter groups row records into sections by their section column,
// keeping sections in first-seen order and questions in row order.
type TabularConverter struct {
	defaultSection string
	columns        ColumnAliases
}

// NewTabularConverter returns a converter using the column aliases and default
// section label of rules.
func NewTabularConverter(rules Rules) *TabularConverter {
	return &TabularConverter{
		defaultSection: strings.TrimSpace(rules.DefaultSection),
		columns:        rules.Columns,
	}
}

// Convert builds sections from rows. Rows with a blank question are skipped
// entirely and do not create their section.
func (c *TabularConverter) Convert(rows []model.Row) []model.Section {
	sections := make([]model.Section, 0)
	index := make(map[string]int)

	for _, row := range rows {
		text := strings.TrimSpace(cellString(lookupColumn(row, c.columns.Question)))
		if text == "" {
			continue
		}
		title := strings.TrimSpace(cellString(lookupColumn(row, c.columns.Section)))
		if title == "" {
			title = c.defaultSection
		}

		i, ok := index[title]
		if !ok {
			i = len(sections)
			index[title] = i
			sections = append(sections, model.Section{Title: title, Questions: []model.Question{}})
		}
		sections[i].Questions = append(sections[i].Questions, model.Question{
			Text:    text,
			Options: rowOptions(lookupColumn(row, c.columns.Options)),
		})
	}
	return sections
}

// lookupColumn resolves the first alias present in row. An exact key wins; otherwise
// keys are compared case-insensitively in sorted order so the result is stable.
func lookupColumn(row model.Row, aliases []string) any {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			return v
		}
	}
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, alias := range aliases {
		for _, k := range keys {
			if strings.EqualFold(strings.TrimSpace(k), strings.TrimSpace(alias)) {
				return row[k]
			}
		}
	}
	return nil
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// rowOptions splits a string cell on comma, semicolon or pipe. A list value is
// taken as-is; any other shape yields no options.
func rowOptions(v any) []string {
	switch t := v.(type) {
	case string:
		parts := rowOptionDelimRe.Split(t, -1)
		opts := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				opts = append(opts, p)
			}
		}
		return opts
	case []string:
		return append([]string{}, t...)
	case []any:
		opts := make([]string, 0, len(t))
		for _, e := range t {
			opts = append(opts, cellString(e))
		}
		return opts
	default:
		return []string{}
	}
}
