package model

import "time"

// Questionnaire is an uploaded document together with the section tree parsed from it.
// Sections is always present in JSON, as an empty list when no heading was found.
type Questionnaire struct {
	ID               string     `json:"id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	StoragePath      string     `json:"storage_path"`
	Size             int64      `json:"size"`
	ContentType      string     `json:"content_type"`
	FormatKind       FormatKind `json:"format_kind"`
	CreatedAt        time.Time  `json:"created_at"`
	Sections         []Section  `json:"sections"`
}

// QuestionnaireSummary is the metadata of a questionnaire, as returned by listings.
type QuestionnaireSummary struct {
	ID               string     `json:"id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	StoragePath      string     `json:"storage_path"`
	Size             int64      `json:"size"`
	ContentType      string     `json:"content_type"`
	FormatKind       FormatKind `json:"format_kind"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Summary drops the section tree.
func (q *Questionnaire) Summary() QuestionnaireSummary {
	return QuestionnaireSummary{
		ID:               q.ID,
		Filename:         q.Filename,
		OriginalFilename: q.OriginalFilename,
		StoragePath:      q.StoragePath,
		Size:             q.Size,
		ContentType:      q.ContentType,
		FormatKind:       q.FormatKind,
		CreatedAt:        q.CreatedAt,
	}
}

// QuestionCount returns the number of questions across all sections.
func (q *Questionnaire) QuestionCount() int {
	n := 0
	for _, s := range q.Sections {
		n += len(s.Questions)
	}
	return n
}
