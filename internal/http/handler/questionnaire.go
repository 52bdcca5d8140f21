package handler

import (
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"questionnaire/internal/service"
)

const (
	defaultSourceExpiry = 15 * time.Minute
	// longest lifetime S3 accepts for a presigned URL
	maxSourceExpiry = 7 * 24 * time.Hour
)

// sourceResponse carries a presigned download link for the original upload.
type sourceResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

// ListQuestionnaires lists stored questionnaires with limit & offset.
//
// @Summary  List questionnaires
// @Tags     questionnaires
// @Produce  json
// @Param    limit  query int false "page size" default(10)
// @Param    offset query int false "page offset" default(0)
// @Success  200 {object} service.QuestionnaireListResult
// @Failure  400 {object} errorPayload
// @Router   /questionnaires [get]
func ListQuestionnaires(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadQuestionnaire parses, stores and persists an uploaded file (multipart/form-data, field name: file).
//
// @Summary  Upload a questionnaire
// @Tags     questionnaires
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "pdf, docx, txt, csv, xls or xlsx document"
// @Success  201 {object} model.Questionnaire
// @Failure  400 {object} errorPayload
// @Failure  413 {object} errorPayload
// @Failure  415 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Failure  504 {object} errorPayload
// @Router   /questionnaires [post]
func UploadQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, f, errResp := formFile(c)
		if f == nil {
			return errResp
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		q, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(q)
	}
}

// PreviewQuestionnaire parses an uploaded file and returns the tree without storing it.
//
// @Summary  Parse without storing
// @Tags     questionnaires
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "pdf, docx, txt, csv, xls or xlsx document"
// @Success  200 {object} model.ParsedDocument
// @Failure  400 {object} errorPayload
// @Failure  415 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /questionnaires/preview [post]
func PreviewQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, f, errResp := formFile(c)
		if f == nil {
			return errResp
		}
		defer f.Close()

		doc, err := svc.Preview(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// GetQuestionnaire returns a questionnaire with its sections.
//
// @Summary  Get a questionnaire
// @Tags     questionnaires
// @Produce  json
// @Param    id path string true "questionnaire id"
// @Success  200 {object} model.Questionnaire
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /questionnaires/{id} [get]
func GetQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		q, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(q)
	}
}

// DeleteQuestionnaire removes the record and the stored object.
//
// @Summary  Delete a questionnaire
// @Tags     questionnaires
// @Param    id path string true "questionnaire id"
// @Success  204
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /questionnaires/{id} [delete]
func DeleteQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ReparseQuestionnaire parses the stored original again with the current rules.
//
// @Summary  Re-parse a stored questionnaire
// @Tags     questionnaires
// @Produce  json
// @Param    id path string true "questionnaire id"
// @Success  200 {object} model.Questionnaire
// @Failure  404 {object} errorPayload
// @Failure  410 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /questionnaires/{id}/reparse [post]
func ReparseQuestionnaire(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		q, err := svc.Reparse(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(q)
	}
}

// QuestionnaireSource returns a presigned link to the original upload.
// The optional expiry query takes a Go duration such as 10m.
//
// @Summary  Download link for the original file
// @Tags     questionnaires
// @Produce  json
// @Param    id     path  string true  "questionnaire id"
// @Param    expiry query string false "link lifetime, e.g. 10m" default(15m)
// @Success  200 {object} sourceResponse
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /questionnaires/{id}/source [get]
func QuestionnaireSource(svc service.QuestionnaireService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		expiry := defaultSourceExpiry
		if raw := c.Query("expiry"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d <= 0 || d > maxSourceExpiry {
				return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "invalid expiry")
			}
			expiry = d
		}

		u, err := svc.SourceURL(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sourceResponse{URL: u, ExpiresIn: int64(expiry.Seconds())})
	}
}

// formFile opens the "file" form field. When the returned file is nil the error
// response has already been written.
func formFile(c *fiber.Ctx) (*multipart.FileHeader, multipart.File, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, nil, writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	return fh, f, nil
}

func idParam(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
