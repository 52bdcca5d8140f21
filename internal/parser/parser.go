// Package parser turns uploaded questionnaire documents into a section tree.
//
// Unstructured formats (PDF, DOCX, TXT) are extracted to text, normalized and
// segmented by heading, question and option patterns. Tabular formats (CSV, XLS,
// XLSX) are extracted to rows and grouped by their section column. Both paths
// return the same model.ParsedDocument shape.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"questionnaire/internal/model"
	"questionnaire/internal/parser/extract"
)

// TextExtractor reads a document on disk as raw text.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// RowExtractor reads a tabular document on disk as row records.
type RowExtractor interface {
	ExtractRows(ctx context.Context, path string) ([]model.Row, error)
}

var formats = map[string]model.FormatKind{
	".pdf":  model.FormatPDF,
	".docx": model.FormatDOCX,
	".txt":  model.FormatTXT,
	".csv":  model.FormatCSV,
	".xls":  model.FormatXLSX,
	".xlsx": model.FormatXLSX,
}

// Extensions returns the recognized filename extensions, sorted.
func Extensions() []string {
	out := make([]string, 0, len(formats))
	for ext := range formats {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Detect maps the extension of filename (case-insensitive) to its format kind.
func Detect(filename string) (model.FormatKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, ok := formats[ext]
	if !ok {
		return "", &UnsupportedFormatError{Extension: ext}
	}
	return kind, nil
}

// Parser dispatches a file to its extractor and then to the segmenter or the
// tabular converter. It keeps no per-call state and is safe for concurrent use.
type Parser struct {
	segmenter *Segmenter
	tabular   *TabularConverter
	text      map[string]TextExtractor
	rows      map[string]RowExtractor
	logger    *zap.Logger
	tracer    trace.Tracer
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug output. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTextExtractor registers e for ext (e.g. ".pdf"). A nil e unregisters it.
func WithTextExtractor(ext string, e TextExtractor) Option {
	return func(p *Parser) {
		ext = strings.ToLower(ext)
		if e == nil {
			delete(p.text, ext)
			return
		}
		p.text[ext] = e
	}
}

// WithRowExtractor registers e for ext (e.g. ".csv"). A nil e unregisters it.
func WithRowExtractor(ext string, e RowExtractor) Option {
	return func(p *Parser) {
		ext = strings.ToLower(ext)
		if e == nil {
			delete(p.rows, ext)
			return
		}
		p.rows[ext] = e
	}
}

// New builds a Parser from rules with the default extractor for every format.
func New(rules Rules, opts ...Option) (*Parser, error) {
	seg, err := NewSegmenter(rules)
	if err != nil {
		return nil, err
	}
	p := &Parser{
		segmenter: seg,
		tabular:   NewTabularConverter(rules),
		text: map[string]TextExtractor{
			".pdf":  extract.NewPDF(),
			".docx": extract.NewDOCX(),
			".txt":  extract.NewText(),
		},
		rows: map[string]RowExtractor{
			".csv":  extract.NewCSV(),
			".xlsx": extract.NewXLSX(),
			".xls":  extract.NewXLS(),
		},
		logger: zap.NewNop(),
		tracer: otel.Tracer("questionnaire/parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Detect is Detect bound to the Parser, for callers holding it behind an interface.
func (p *Parser) Detect(filename string) (model.FormatKind, error) {
	return Detect(filename)
}

// Parse reads the file at path, selecting the format from originalFilename.
// It fails with *UnsupportedFormatError before touching the file, with
// *MissingDependencyError when no extractor is registered, and with
// *FormatExtractionError when the extractor fails. It never returns a partial result.
func (p *Parser) Parse(ctx context.Context, path, originalFilename string) (*model.ParsedDocument, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	kind, ok := formats[ext]
	if !ok {
		return nil, &UnsupportedFormatError{Extension: ext}
	}

	ctx, span := p.tracer.Start(ctx, "parser.Parse", trace.WithAttributes(
		attribute.String("questionnaire.format", string(kind)),
		attribute.String("questionnaire.extension", ext),
	))
	defer span.End()

	var (
		sections []model.Section
		err      error
	)
	if kind.Tabular() {
		sections, err = p.parseRows(ctx, ext, path)
	} else {
		sections, err = p.parseText(ctx, ext, path)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}

	doc := &model.ParsedDocument{FormatKind: kind, Sections: sections}
	questions := 0
	for _, s := range sections {
		questions += len(s.Questions)
	}
	span.SetAttributes(
		attribute.Int("questionnaire.sections", len(sections)),
		attribute.Int("questionnaire.questions", questions),
	)
	p.logger.Debug("document parsed",
		zap.String("component", "parser"),
		zap.String("format", string(kind)),
		zap.String("filename", originalFilename),
		zap.Int("sections", len(sections)),
		zap.Int("questions", questions),
	)
	return doc, nil
}

func (p *Parser) parseText(ctx context.Context, ext, path string) ([]model.Section, error) {
	ex, ok := p.text[ext]
	if !ok {
		return nil, &MissingDependencyError{Extension: ext, Dependency: "text"}
	}
	raw, err := guard(func() (string, error) { return ex.ExtractText(ctx, path) })
	if err != nil {
		return nil, &FormatExtractionError{Format: strings.TrimPrefix(ext, "."), Path: path, Cause: err}
	}
	return p.segmenter.Segment(Normalize(raw)), nil
}

func (p *Parser) parseRows(ctx context.Context, ext, path string) ([]model.Section, error) {
	ex, ok := p.rows[ext]
	if !ok {
		return nil, &MissingDependencyError{Extension: ext, Dependency: "row"}
	}
	rows, err := guard(func() ([]model.Row, error) { return ex.ExtractRows(ctx, path) })
	if err != nil {
		return nil, &FormatExtractionError{Format: strings.TrimPrefix(ext, "."), Path: path, Cause: err}
	}
	return p.tabular.Convert(rows), nil
}

// guard converts a panic inside a third-party extractor into an error.
func guard[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return fn()
}
