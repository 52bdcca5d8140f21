package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"questionnaire/internal/model"
	"questionnaire/internal/repository"
)

// QuestionnairePostgres is a PostgreSQL implementation of repository.QuestionnaireRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Options are stored as a JSON array per question.
type QuestionnairePostgres struct {
	db *sql.DB
}

// NewQuestionnairePostgres creates a new QuestionnairePostgres repository.
func NewQuestionnairePostgres(db *sql.DB) *QuestionnairePostgres {
	return &QuestionnairePostgres{db: db}
}

var _ repository.QuestionnaireRepository = (*QuestionnairePostgres)(nil)

// IsNoRowsError reports whether err means the requested row does not exist.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

const questionnaireColumns = `id, filename, original_filename, storage_path, size, content_type, format_kind, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestionnaire(s scanner) (*model.Questionnaire, error) {
	var q model.Questionnaire
	if err := s.Scan(
		&q.ID,
		&q.Filename,
		&q.OriginalFilename,
		&q.StoragePath,
		&q.Size,
		&q.ContentType,
		&q.FormatKind,
		&q.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserts the questionnaire row and its tree in one transaction.
func (r *QuestionnairePostgres) Create(ctx context.Context, q *model.Questionnaire) (*model.Questionnaire, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const qInsert = `
		INSERT INTO questionnaires (` + questionnaireColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + questionnaireColumns
	out, err := scanQuestionnaire(tx.QueryRowContext(ctx, qInsert,
		q.ID,
		q.Filename,
		q.OriginalFilename,
		q.StoragePath,
		q.Size,
		q.ContentType,
		string(q.FormatKind),
		q.CreatedAt,
	))
	if err != nil {
		return nil, err
	}

	if err := insertSections(ctx, tx, out.ID, q.Sections); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	out.Sections = q.Sections
	return out, nil
}

func insertSections(ctx context.Context, tx *sql.Tx, questionnaireID string, sections []model.Section) error {
	const qSection = `
		INSERT INTO questionnaire_sections (id, questionnaire_id, position, title)
		VALUES ($1, $2, $3, $4)
	`
	const qQuestion = `
		INSERT INTO questionnaire_questions (section_id, position, text, options)
		VALUES ($1, $2, $3, $4)
	`
	for i, s := range sections {
		sectionID := uuid.New().String()
		if _, err := tx.ExecContext(ctx, qSection, sectionID, questionnaireID, i, s.Title); err != nil {
			return fmt.Errorf("insert section %d: %w", i, err)
		}
		for j, question := range s.Questions {
			opts := question.Options
			if opts == nil {
				opts = []string{}
			}
			raw, err := json.Marshal(opts)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, qQuestion, sectionID, j, question.Text, string(raw)); err != nil {
				return fmt.Errorf("insert question %d of section %d: %w", j, i, err)
			}
		}
	}
	return nil
}

// FindByID fetches a questionnaire and its tree. Returns sql.ErrNoRows if absent.
func (r *QuestionnairePostgres) FindByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	const q = `
		SELECT ` + questionnaireColumns + `
		FROM questionnaires
		WHERE id = $1
	`
	out, err := scanQuestionnaire(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}

	sections, err := r.findSections(ctx, id)
	if err != nil {
		return nil, err
	}
	out.Sections = sections
	return out, nil
}

func (r *QuestionnairePostgres) findSections(ctx context.Context, id string) ([]model.Section, error) {
	const q = `
		SELECT s.id, s.title, qq.text, qq.options
		FROM questionnaire_sections s
		LEFT JOIN questionnaire_questions qq ON qq.section_id = s.id
		WHERE s.questionnaire_id = $1
		ORDER BY s.position, qq.position
	`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := make([]model.Section, 0)
	lastID := ""
	for rows.Next() {
		var (
			sectionID, title string
			text, options    sql.NullString
		)
		if err := rows.Scan(&sectionID, &title, &text, &options); err != nil {
			return nil, err
		}
		if sectionID != lastID {
			sections = append(sections, model.Section{Title: title, Questions: []model.Question{}})
			lastID = sectionID
		}
		// a section without questions comes back as one row of NULLs
		if !text.Valid {
			continue
		}
		opts := []string{}
		if options.Valid && options.String != "" {
			if err := json.Unmarshal([]byte(options.String), &opts); err != nil {
				return nil, fmt.Errorf("decode options: %w", err)
			}
		}
		cur := &sections[len(sections)-1]
		cur.Questions = append(cur.Questions, model.Question{Text: text.String, Options: opts})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

// List returns questionnaires using LIMIT/OFFSET pagination and a total count.
func (r *QuestionnairePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Questionnaire], error) {
	const qCount = `SELECT COUNT(*) FROM questionnaires`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + questionnaireColumns + `
		FROM questionnaires
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Questionnaire, 0)
	for rows.Next() {
		q, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Questionnaire]{
		Items: items,
		Total: total,
	}, nil
}

// ReplaceSections deletes the stored tree and inserts sections in its place.
// Returns sql.ErrNoRows if the questionnaire does not exist.
func (r *QuestionnairePostgres) ReplaceSections(ctx context.Context, id string, sections []model.Section) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	const qLock = `SELECT true FROM questionnaires WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, qLock, id).Scan(&exists); err != nil {
		return err
	}

	// questions go with their sections via ON DELETE CASCADE
	const qDelete = `DELETE FROM questionnaire_sections WHERE questionnaire_id = $1`
	if _, err := tx.ExecContext(ctx, qDelete, id); err != nil {
		return err
	}
	if err := insertSections(ctx, tx, id, sections); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a questionnaire by ID. It does not return an error if the row does not exist.
func (r *QuestionnairePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM questionnaires WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
