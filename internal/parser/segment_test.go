package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questionnaire/internal/model"
)

func newTestSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	seg, err := NewSegmenter(DefaultRules())
	require.NoError(t, err)
	return seg
}

func TestSegmenter_Segment(t *testing.T) {
	seg := newTestSegmenter(t)

	tests := []struct {
		name string
		text string
		want []model.Section
	}{
		{
			name: "single section with two questions",
			text: "Attitudes & Preferences 1. Do you like tea? Options: Yes, No, Maybe 2. Do you like coffee? Options: Yes - No",
			want: []model.Section{{
				Title: "Attitudes & Preferences",
				Questions: []model.Question{
					{Text: "Do you like tea?", Options: []string{"Yes", "No", "Maybe"}},
					{Text: "Do you like coffee?", Options: []string{"Yes", "No"}},
				},
			}},
		},
		{
			name: "no recognized heading",
			text: "Customer Survey 1. Do you like tea? Options: Yes, No",
			want: []model.Section{},
		},
		{
			name: "preamble before first heading is dropped",
			text: "Intro text 1. Ignored? Options: A, B Background & Demographics 1. How old are you? Options: 18-25, 26-35",
			want: []model.Section{{
				Title: "Background & Demographics",
				Questions: []model.Question{
					{Text: "How old are you?", Options: []string{"18-25", "26-35"}},
				},
			}},
		},
		{
			name: "heading without questions keeps an empty section",
			text: "Background & Demographics Attitudes & Preferences 1. Why? Option: Because",
			want: []model.Section{
				{Title: "Background & Demographics", Questions: []model.Question{}},
				{Title: "Attitudes & Preferences", Questions: []model.Question{
					{Text: "Why?", Options: []string{"Because"}},
				}},
			},
		},
		{
			name: "question without options label",
			text: "Behaviour & Usage 1. What do you use most often? 2. How often? Options: Daily, Weekly",
			want: []model.Section{{
				Title: "Behaviour & Usage",
				Questions: []model.Question{
					{Text: "What do you use most often?", Options: []string{}},
					{Text: "How often?", Options: []string{"Daily", "Weekly"}},
				},
			}},
		},
		{
			name: "headings are matched case-insensitively and keep source casing",
			text: "ATTITUDES &  PREFERENCES 1. Tea? options : Green, Black",
			want: []model.Section{{
				Title: "ATTITUDES & PREFERENCES",
				Questions: []model.Question{
					{Text: "Tea?", Options: []string{"Green", "Black"}},
				},
			}},
		},
		{
			name: "sections follow heading order",
			text: "Behaviour & Usage 1. A? Background & Demographics 1. B?",
			want: []model.Section{
				{Title: "Behaviour & Usage", Questions: []model.Question{{Text: "A?", Options: []string{}}}},
				{Title: "Background & Demographics", Questions: []model.Question{{Text: "B?", Options: []string{}}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seg.Segment(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSegmenter_NoCrossLeakage(t *testing.T) {
	seg := newTestSegmenter(t)

	text := "Attitudes & Preferences 1. Favourite colour? Options: Red, Blue 2. Rate the brand from 1 to 5 3. Favourite animal? Options: Cat, Dog"
	got := seg.Segment(text)

	require.Len(t, got, 1)
	require.Len(t, got[0].Questions, 2)
	assert.Equal(t, "Favourite colour?", got[0].Questions[0].Text)
	assert.Equal(t, []string{"Red", "Blue"}, got[0].Questions[0].Options)
	assert.Equal(t, "Favourite animal?", got[0].Questions[1].Text)
	assert.Equal(t, []string{"Cat", "Dog"}, got[0].Questions[1].Options)
}

func TestSegmenter_NumberedNoteKeepsItsOptions(t *testing.T) {
	seg := newTestSegmenter(t)

	got := seg.Segment("Attitudes & Preferences 1. Tea? 2. Note Options: X 3. Coffee? Options: A")
	require.Len(t, got, 1)
	assert.Equal(t, []model.Question{
		{Text: "Tea?", Options: []string{}},
		{Text: "Coffee?", Options: []string{"A"}},
	}, got[0].Questions)
}

func TestSegmenter_QPrefixedMarkers(t *testing.T) {
	seg := newTestSegmenter(t)

	got := seg.Segment("Attitudes & Preferences Q1. Do you like tea? Options: Yes, No q2. Why? FAQ3. not a marker?")
	require.Len(t, got, 1)
	assert.Equal(t, []model.Question{
		{Text: "Do you like tea?", Options: []string{"Yes", "No"}},
		{Text: "Why?", Options: []string{}},
	}, got[0].Questions)
}

func TestSegmenter_DecimalIsNotAQuestionMarker(t *testing.T) {
	seg := newTestSegmenter(t)

	got := seg.Segment("Behaviour & Usage 1. Do you sleep more than 7.5 hours? Options: Yes, No")
	require.Len(t, got, 1)
	require.Len(t, got[0].Questions, 1)
	assert.Equal(t, "Do you sleep more than 7.5 hours?", got[0].Questions[0].Text)
	assert.Equal(t, []string{"Yes", "No"}, got[0].Questions[0].Options)
}

func TestSegmenter_CustomRules(t *testing.T) {
	rules := DefaultRules()
	rules.SectionHeadings = []string{"Part A", "Part B"}
	rules.OptionLabels = []string{"Choices"}
	seg, err := NewSegmenter(rules)
	require.NoError(t, err)

	got := seg.Segment("Part A 1. Ready? Choices: Yes, No Part B 1. Done? Options: ignored")
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Yes", "No"}, got[0].Questions[0].Options)
	assert.Equal(t, []string{}, got[1].Questions[0].Options)
}

func TestTokenizeOptions(t *testing.T) {
	assert.Equal(t, []string{"Yes", "No"}, tokenizeOptions(" Yes ,, No , "))
	assert.Equal(t, []string{"Agree", "Disagree"}, tokenizeOptions("Agree - Disagree - 3. Next"))
	assert.Equal(t, []string{"18-25"}, tokenizeOptions("18-25"))
	assert.Equal(t, []string{}, tokenizeOptions("   "))
}

func TestSegmenter_Idempotent(t *testing.T) {
	seg := newTestSegmenter(t)
	text := "Attitudes & Preferences 1. Do you like tea? Options: Yes, No 2. Why? Behaviour & Usage 1. How often? Options: Daily - Weekly"
	assert.Equal(t, seg.Segment(text), seg.Segment(text))
}
