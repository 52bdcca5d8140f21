package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"questionnaire/internal/logger"
	"questionnaire/internal/metrics"
	"questionnaire/internal/model"
	"questionnaire/internal/parser"
	"questionnaire/internal/repository"
	"questionnaire/internal/storage"
)

var (
	ErrIDRequired    = errors.New("id is required")
	ErrNotFound      = errors.New("questionnaire not found")
	ErrReaderNil     = errors.New("reader is nil")
	ErrFileTooLarge  = errors.New("file exceeds the maximum upload size")
	ErrParseTimeout  = errors.New("parsing did not finish in time")
	ErrSourceMissing = errors.New("stored source file is missing")
)

const (
	storagePrefix        = "questionnaires"
	defaultPresignExpiry = 15 * time.Minute
	defaultContentType   = "application/octet-stream"
)

// DocumentParser turns a file on disk into a section tree. *parser.Parser implements it.
type DocumentParser interface {
	Detect(filename string) (model.FormatKind, error)
	Parse(ctx context.Context, path, originalFilename string) (*model.ParsedDocument, error)
}

// QuestionnaireListResult is the service-level DTO for paginated questionnaires.
type QuestionnaireListResult struct {
	Items []model.QuestionnaireSummary `json:"data"`
	Total int                          `json:"total"`
}

// QuestionnaireService defines the use cases for uploaded questionnaires.
type QuestionnaireService interface {
	// Upload parses the content, stores the raw bytes in object storage and saves the
	// record with its section tree. The object is removed again if the DB save fails.
	// originalFilename selects the format; the stored name is a UUID plus its extension.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Questionnaire, error)

	// Preview parses the content and returns the tree without storing anything.
	Preview(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.ParsedDocument, error)

	// List returns questionnaire records using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*QuestionnaireListResult, error)

	// Get returns a questionnaire with its section tree.
	Get(ctx context.Context, id string) (*model.Questionnaire, error)

	// Delete removes a questionnaire from both storage and repository.
	Delete(ctx context.Context, id string) error

	// Reparse parses the stored bytes again and replaces the saved tree.
	Reparse(ctx context.Context, id string) (*model.Questionnaire, error)

	// SourceURL returns a pre-signed download link for the original upload.
	SourceURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

// Options tunes a QuestionnaireService. Zero values disable the size limit and timeout.
type Options struct {
	MaxFileSize int64
	Timeout     time.Duration
	TempDir     string
	Logger      *zap.Logger
	Metrics     *metrics.ParseMetrics
}

type questionnaireService struct {
	store   storage.Storage
	repo    repository.QuestionnaireRepository
	parser  DocumentParser
	opts    Options
	log     *zap.Logger
	metrics *metrics.ParseMetrics
}

// NewQuestionnaireService constructs a new QuestionnaireService.
func NewQuestionnaireService(store storage.Storage, repo repository.QuestionnaireRepository, p DocumentParser, opts Options) QuestionnaireService {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &questionnaireService{
		store:   store,
		repo:    repo,
		parser:  p,
		opts:    opts,
		log:     log.With(zap.String("component", "service")),
		metrics: opts.Metrics,
	}
}

func (s *questionnaireService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Questionnaire, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if _, err := s.detect(originalFilename); err != nil {
		return nil, err
	}
	if s.tooLarge(size) {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	path, n, err := s.spool(r, ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	doc, err := s.parse(ctx, path, originalFilename)
	if err != nil {
		return nil, err
	}

	genName := uuid.New().String() + ext
	key := storagePrefix + "/" + genName
	if contentType == "" {
		contentType = defaultContentType
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reopen spooled upload: %w", err)
	}
	defer f.Close()

	objInfo, err := s.store.Put(ctx, key, f, storage.PutObjectOptions{
		Size:         n,
		ContentType:  contentType,
		DownloadName: originalFilename,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	q := &model.Questionnaire{
		ID:               uuid.New().String(),
		Filename:         genName,
		OriginalFilename: originalFilename,
		StoragePath:      objInfo.Key,
		Size:             n,
		ContentType:      contentType,
		FormatKind:       doc.FormatKind,
		CreatedAt:        time.Now().UTC(),
		Sections:         doc.Sections,
	}
	stored, err := s.repo.Create(ctx, q)
	if err != nil {
		s.log.Warn("db save failed, removing stored object",
			zap.String("request_id", logger.RequestID(ctx)),
			zap.String("key", key),
			zap.Error(err),
		)
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	s.log.Info("questionnaire stored",
		zap.String("request_id", logger.RequestID(ctx)),
		zap.String("id", stored.ID),
		zap.String("format", string(q.FormatKind)),
		zap.Int("sections", len(q.Sections)),
		zap.Int("questions", q.QuestionCount()),
	)
	return stored, nil
}

func (s *questionnaireService) Preview(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.ParsedDocument, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if _, err := s.detect(originalFilename); err != nil {
		return nil, err
	}
	if s.tooLarge(size) {
		return nil, ErrFileTooLarge
	}

	path, _, err := s.spool(r, strings.ToLower(filepath.Ext(originalFilename)))
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	return s.parse(ctx, path, originalFilename)
}

// List returns paginated questionnaires without exposing repository types.
func (s *questionnaireService) List(ctx context.Context, limit, offset int) (*QuestionnaireListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := make([]model.QuestionnaireSummary, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, res.Items[i].Summary())
	}
	return &QuestionnaireListResult{Items: items, Total: res.Total}, nil
}

func (s *questionnaireService) Get(ctx context.Context, id string) (*model.Questionnaire, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

// Delete removes the stored object first, then the record.
func (s *questionnaireService) Delete(ctx context.Context, id string) error {
	q, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// keep the row if storage delete fails so the object is not orphaned
	if err := s.store.Delete(ctx, q.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *questionnaireService) Reparse(ctx context.Context, id string) (*model.Questionnaire, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rc, _, err := s.store.Get(ctx, q.StoragePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrSourceMissing
	} else if err != nil {
		return nil, fmt.Errorf("download from storage: %w", err)
	}
	path, _, err := s.spool(rc, strings.ToLower(filepath.Ext(q.OriginalFilename)))
	rc.Close()
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	doc, err := s.parse(ctx, path, q.OriginalFilename)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceSections(ctx, id, doc.Sections); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save sections: %w", err)
	}
	q.Sections = doc.Sections
	return q, nil
}

func (s *questionnaireService) SourceURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	u, err := s.store.PresignGet(ctx, q.StoragePath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign source: %w", err)
	}
	return u, nil
}

// detect rejects unsupported formats before any bytes are read.
func (s *questionnaireService) detect(originalFilename string) (model.FormatKind, error) {
	kind, err := s.parser.Detect(originalFilename)
	if err != nil {
		s.metrics.Observe("", outcome(err), 0)
		return "", err
	}
	return kind, nil
}

func (s *questionnaireService) tooLarge(size int64) bool {
	return s.opts.MaxFileSize > 0 && size > s.opts.MaxFileSize
}

// spool copies r into a temp file so extractors that need random access can read it.
// It enforces MaxFileSize on the bytes actually read.
func (s *questionnaireService) spool(r io.Reader, ext string) (string, int64, error) {
	f, err := os.CreateTemp(s.opts.TempDir, "questionnaire-*"+ext)
	if err != nil {
		return "", 0, fmt.Errorf("create spool file: %w", err)
	}

	src := r
	if s.opts.MaxFileSize > 0 {
		src = io.LimitReader(r, s.opts.MaxFileSize+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("spool upload: %w", err)
	}
	if s.tooLarge(n) {
		os.Remove(f.Name())
		return "", 0, ErrFileTooLarge
	}
	return f.Name(), n, nil
}

type parseResult struct {
	doc *model.ParsedDocument
	err error
}

// parse runs the parser under the configured timeout. A parser that ignores
// cancellation is abandoned; its result is discarded.
func (s *questionnaireService) parse(ctx context.Context, path, originalFilename string) (*model.ParsedDocument, error) {
	start := time.Now()
	kind, _ := s.parser.Detect(originalFilename)

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	done := make(chan parseResult, 1)
	go func() {
		doc, err := s.parser.Parse(ctx, path, originalFilename)
		done <- parseResult{doc: doc, err: err}
	}()

	var res parseResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) {
		res.err = ErrParseTimeout
	}

	s.metrics.Observe(string(kind), outcome(res.err), time.Since(start))
	if res.err != nil {
		s.log.Info("parse failed",
			zap.String("request_id", logger.RequestID(ctx)),
			zap.String("filename", originalFilename),
			zap.String("format", string(kind)),
			zap.Error(res.err),
		)
		return nil, res.err
	}
	return res.doc, nil
}

func outcome(err error) string {
	var (
		unsupported *parser.UnsupportedFormatError
		missing     *parser.MissingDependencyError
		extraction  *parser.FormatExtractionError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrParseTimeout):
		return metrics.OutcomeTimeout
	case errors.As(err, &unsupported):
		return metrics.OutcomeUnsupportedFormat
	case errors.As(err, &missing):
		return metrics.OutcomeMissingDependency
	case errors.As(err, &extraction):
		return metrics.OutcomeExtractionFailed
	default:
		return metrics.OutcomeError
	}
}
