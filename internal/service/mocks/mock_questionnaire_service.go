package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"questionnaire/internal/model"
	"questionnaire/internal/service"
)

type MockQuestionnaireService struct {
	mock.Mock
}

func (m *MockQuestionnaireService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Questionnaire, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireService) Preview(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.ParsedDocument, error) {
	args := m.Called(ctx, r, originalFilename, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParsedDocument), args.Error(1)
}

func (m *MockQuestionnaireService) List(ctx context.Context, limit, offset int) (*service.QuestionnaireListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuestionnaireListResult), args.Error(1)
}

func (m *MockQuestionnaireService) Get(ctx context.Context, id string) (*model.Questionnaire, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionnaireService) Reparse(ctx context.Context, id string) (*model.Questionnaire, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Questionnaire), args.Error(1)
}

func (m *MockQuestionnaireService) SourceURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}
