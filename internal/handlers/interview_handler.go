package handlers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"interview-evaluator/internal/models"
	"interview-evaluator/internal/services"
)

type InterviewHandler struct {
	interviewService services.InterviewService
	validate         *validator.Validate
	maxFileSize      int64
}

func NewInterviewHandler(interviewService services.InterviewService, maxFileSize int64) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		validate:         validator.New(),
		maxFileSize:      maxFileSize,
	}
}

// HandleCreate handles POST /api/interview/create
func (h *InterviewHandler) HandleCreate(c *fiber.Ctx) error {
	profile := models.Profile{
		JobTitle:        strings.TrimSpace(c.FormValue("job_title")),
		ExperienceLevel: strings.TrimSpace(c.FormValue("experience_level")),
		FreeText:        strings.TrimSpace(c.FormValue("cover_letter")),
	}

	if profile.JobTitle == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_title is required",
		})
	}

	questionCount := 5
	if c.FormValue("mode") == "practice" {
		questionCount = 1
	}

	artifact, err := h.readArtifact(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	questionSet, err := h.interviewService.CreateInterview(c.Context(), profile, artifact, questionCount)
	if err != nil {
		return renderPipelineError(c, err)
	}

	return c.JSON(questionSet)
}

// HandleSubmit handles POST /api/interview/submit
func (h *InterviewHandler) HandleSubmit(c *fiber.Ctx) error {
	var req models.SubmitRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "qnaList is required and every entry needs a question",
		})
	}

	outcome, err := h.interviewService.EvaluateSubmission(c.Context(), req.QnAList)
	if err != nil {
		return renderPipelineError(c, err)
	}

	// Recovery failed but the model did answer: hand the raw text back
	// instead of an error so the client can still show something.
	if outcome.Degraded {
		return c.JSON(fiber.Map{
			"warning": outcome.Warning,
			"raw":     outcome.Raw,
		})
	}

	return c.JSON(outcome.Report)
}

// readArtifact pulls the optional resume_file into memory. A missing
// file is not an error; the profile's free text stands on its own.
func (h *InterviewHandler) readArtifact(c *fiber.Ctx) (*models.UploadedArtifact, error) {
	fileHeader, err := c.FormFile("resume_file")
	if err != nil || fileHeader == nil || fileHeader.Filename == "" {
		return nil, nil
	}

	if fileHeader.Size > h.maxFileSize {
		return nil, fmt.Errorf("resume_file too large. Max size: %d bytes", h.maxFileSize)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &models.UploadedArtifact{
		Filename: fileHeader.Filename,
		Raw:      raw,
	}, nil
}

// renderPipelineError maps the pipeline's error taxonomy onto HTTP
// statuses: document failures are the client's fault, model payload and
// score-matrix failures are the upstream's.
func renderPipelineError(c *fiber.Ctx, err error) error {
	var unsupported *models.UnsupportedFormatError
	if errors.As(err, &unsupported) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":           unsupported.Error(),
			"allowed_formats": unsupported.Allowed,
		})
	}

	var corrupt *models.CorruptDocumentError
	if errors.As(err, &corrupt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": corrupt.Error(),
		})
	}

	var notJSON *models.PayloadNotJSONError
	if errors.As(err, &notJSON) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": notJSON.Error(),
			"raw":   notJSON.Raw,
		})
	}

	var mismatch *models.SchemaMismatchError
	if errors.As(err, &mismatch) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":        mismatch.Error(),
			"missing_keys": mismatch.MissingKeys,
		})
	}

	var inconsistent *models.InconsistentScoreDataError
	if errors.As(err, &inconsistent) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":       inconsistent.Error(),
			"question_id": inconsistent.QuestionID,
		})
	}

	if errors.Is(err, models.ErrDivisionByZeroScore) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
