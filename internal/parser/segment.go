package parser

import (
	"fmt"
	"regexp"
	"strings"

	"questionnaire/internal/model"
)

var (
	// numberMarkerRe locates a leading integer followed by a period, optionally
	// prefixed with Q as in "Q1.".
	numberMarkerRe = regexp.MustCompile(`\b[Qq]?\d+\.\s*`)
	// optionDelimRe splits an option list on commas or on hyphens surrounded by spaces,
	// so ranges such as "18-25" stay whole.
	optionDelimRe = regexp.MustCompile(`,|\s+-\s+`)
	numberedRe    = regexp.MustCompile(`^[Qq]?\d+\.`)
)

// Segmenter splits normalized text into sections, questions and options.
//
// The passes are scoped: heading spans partition the text, question spans are
// searched only inside one section body, and options only inside one question's
// content block (from the end of its question to the start of the next one).
// Text before the first recognized heading belongs to no section and is dropped.
//
// A Segmenter holds only compiled patterns and is safe for concurrent use.
type Segmenter struct {
	headingRe *regexp.Regexp
	labelRe   *regexp.Regexp
}

// NewSegmenter compiles the heading and option label phrases of rules.
func NewSegmenter(rules Rules) (*Segmenter, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	headingRe, err := regexp.Compile(`(?i)` + phraseAlternation(rules.SectionHeadings))
	if err != nil {
		return nil, fmt.Errorf("compile section headings: %w", err)
	}
	labelRe, err := regexp.Compile(`(?i)\b` + phraseAlternation(rules.OptionLabels) + `\s*:`)
	if err != nil {
		return nil, fmt.Errorf("compile option labels: %w", err)
	}
	return &Segmenter{headingRe: headingRe, labelRe: labelRe}, nil
}

// Segment converts one normalized text blob into sections. A heading followed by
// no questions still yields a section, with an empty question list.
func (s *Segmenter) Segment(text string) []model.Section {
	headings := s.headingRe.FindAllStringIndex(text, -1)
	sections := make([]model.Section, 0, len(headings))
	for i, h := range headings {
		bodyEnd := len(text)
		if i+1 < len(headings) {
			bodyEnd = headings[i+1][0]
		}
		sections = append(sections, model.Section{
			Title:     Normalize(text[h[0]:h[1]]),
			Questions: s.questions(text[h[1]:bodyEnd]),
		})
	}
	return sections
}

type questionSpan struct {
	text  string
	start int // start of the number marker
	end   int // just past the question mark
}

func (s *Segmenter) questions(body string) []model.Question {
	spans := findQuestions(body)
	out := make([]model.Question, 0, len(spans))
	for i, q := range spans {
		blockEnd := len(body)
		if i+1 < len(spans) {
			blockEnd = spans[i+1].start
		}
		out = append(out, model.Question{
			Text:    q.text,
			Options: s.options(body[q.end:blockEnd]),
		})
	}
	return out
}

// findQuestions returns, in document order, every number marker whose text runs
// to a question mark before the next marker. Markers without one are skipped.
func findQuestions(body string) []questionSpan {
	markers := numberMarkers(body)
	spans := make([]questionSpan, 0, len(markers))
	for i, m := range markers {
		limit := len(body)
		if i+1 < len(markers) {
			limit = markers[i+1][0]
		}
		seg := body[m[1]:limit]
		q := strings.IndexByte(seg, '?')
		if q < 0 || strings.TrimSpace(seg[:q]) == "" {
			continue
		}
		spans = append(spans, questionSpan{
			text:  strings.TrimSpace(seg[:q+1]),
			start: m[0],
			end:   m[1] + q + 1,
		})
	}
	return spans
}

// numberMarkers finds "N." markers, ignoring decimals such as "2.5".
func numberMarkers(text string) [][]int {
	all := numberMarkerRe.FindAllStringIndex(text, -1)
	out := all[:0]
	for _, m := range all {
		if text[m[1]-1] == '.' && m[1] < len(text) && isDigit(text[m[1]]) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// options extracts the option list from one content block. Only the text before
// the first number marker in the block belongs to the question, so a numbered
// note without a question mark keeps its own label. The raw list runs from the
// label to that marker or the end of the block.
func (s *Segmenter) options(block string) []string {
	if next := numberMarkers(block); len(next) > 0 {
		block = block[:next[0][0]]
	}
	loc := s.labelRe.FindStringIndex(block)
	if loc == nil {
		return []string{}
	}
	return tokenizeOptions(block[loc[1]:])
}

func tokenizeOptions(raw string) []string {
	parts := optionDelimRe.Split(raw, -1)
	opts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || numberedRe.MatchString(p) {
			continue
		}
		opts = append(opts, p)
	}
	return opts
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
