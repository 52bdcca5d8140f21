// Package repository contains data access abstractions for questionnaires.
// Implementations live in subpackages (e.g. postgres).
package repository

import (
	"context"

	"questionnaire/internal/model"
)

// QuestionnaireRepository defines data access for questionnaires and their parsed
// section trees. Strictly persistence operations, no parsing or storage logic.
type QuestionnaireRepository interface {
	// Create inserts the questionnaire record together with its sections and questions
	// in a single transaction. Returns the stored record including its tree.
	Create(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error)

	// FindByID returns a questionnaire with sections and questions in document order.
	FindByID(ctx context.Context, id string) (*model.Questionnaire, error)

	// List returns a page of questionnaire records (metadata only) and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Questionnaire], error)

	// ReplaceSections swaps the stored tree of a questionnaire for sections.
	ReplaceSections(ctx context.Context, id string, sections []model.Section) error

	// Delete removes a questionnaire and its tree. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
