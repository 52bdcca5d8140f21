package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"questionnaire/internal/model"
)

type MockParser struct {
	mock.Mock
}

func (m *MockParser) Detect(filename string) (model.FormatKind, error) {
	args := m.Called(filename)
	return args.Get(0).(model.FormatKind), args.Error(1)
}

func (m *MockParser) Parse(ctx context.Context, path, originalFilename string) (*model.ParsedDocument, error) {
	args := m.Called(ctx, path, originalFilename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParsedDocument), args.Error(1)
}
