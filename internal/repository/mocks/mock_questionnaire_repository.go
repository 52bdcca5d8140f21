package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"questionnaire/internal/model"
	"questionnaire/internal/repository"
)

type MockQuestionnaireRepository struct {
	mock.Mock
}

func (m *MockQuestionnaireRepository) Create(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireRepository) FindByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Questionnaire], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Questionnaire]), args.Error(1)
}

func (m *MockQuestionnaireRepository) ReplaceSections(ctx context.Context, id string, sections []model.Section) error {
	args := m.Called(ctx, id, sections)
	return args.Error(0)
}

func (m *MockQuestionnaireRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
