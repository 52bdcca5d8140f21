package parser

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules holds the phrase lists that drive segmentation. They are data, so new
// document templates can be supported by editing a rules file.
type Rules struct {
	// SectionHeadings are matched case-insensitively; internal whitespace is flexible.
	SectionHeadings []string `yaml:"section_headings"`
	// OptionLabels precede the option list of a question and are followed by a colon.
	OptionLabels []string `yaml:"option_labels"`
	// DefaultSection labels tabular rows that have no section value.
	DefaultSection string `yaml:"default_section"`
	// Columns lists accepted column names per field for tabular sources.
	Columns ColumnAliases `yaml:"columns"`
}

// ColumnAliases maps each row field to the column names accepted for it.
type ColumnAliases struct {
	Section  []string `yaml:"section"`
	Question []string `yaml:"question"`
	Options  []string `yaml:"options"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		SectionHeadings: []string{
			"Background & Demographics",
			"Attitudes & Preferences",
			"Behaviour & Usage",
		},
		OptionLabels:   []string{"Options", "Option"},
		DefaultSection: "Default",
		Columns: ColumnAliases{
			Section:  []string{"section"},
			Question: []string{"question"},
			Options:  []string{"options"},
		},
	}
}

// LoadRules reads a YAML rules file. Fields absent from the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var file Rules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("decode rules file: %w", err)
	}
	if len(file.SectionHeadings) > 0 {
		rules.SectionHeadings = file.SectionHeadings
	}
	if len(file.OptionLabels) > 0 {
		rules.OptionLabels = file.OptionLabels
	}
	if strings.TrimSpace(file.DefaultSection) != "" {
		rules.DefaultSection = strings.TrimSpace(file.DefaultSection)
	}
	if len(file.Columns.Section) > 0 {
		rules.Columns.Section = file.Columns.Section
	}
	if len(file.Columns.Question) > 0 {
		rules.Columns.Question = file.Columns.Question
	}
	if len(file.Columns.Options) > 0 {
		rules.Columns.Options = file.Columns.Options
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate checks that every phrase list has at least one non-blank entry.
func (r Rules) Validate() error {
	if len(nonBlank(r.SectionHeadings)) == 0 {
		return errors.New("rules: at least one section heading is required")
	}
	if len(nonBlank(r.OptionLabels)) == 0 {
		return errors.New("rules: at least one option label is required")
	}
	if strings.TrimSpace(r.DefaultSection) == "" {
		return errors.New("rules: default section label is required")
	}
	if len(nonBlank(r.Columns.Question)) == 0 {
		return errors.New("rules: at least one question column is required")
	}
	return nil
}

// phraseAlternation builds a non-capturing alternation of the given phrases.
// Longer phrases come first so that "Options" wins over its prefix "Option".
func phraseAlternation(phrases []string) string {
	ps := nonBlank(phrases)
	sort.SliceStable(ps, func(i, j int) bool { return len(ps[i]) > len(ps[j]) })

	alts := make([]string, 0, len(ps))
	for _, p := range ps {
		words := strings.Fields(p)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(words, `\s+`))
	}
	return `(?:` + strings.Join(alts, "|") + `)`
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
