package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-evaluator/internal/models"
)

type fakeInterviewService struct {
	questionSet  *models.QuestionSet
	outcome      *models.EvaluationOutcome
	err          error
	lastProfile  models.Profile
	lastArtifact *models.UploadedArtifact
	lastCount    int
	lastQnA      []models.QA
}

func (f *fakeInterviewService) CreateInterview(_ context.Context, profile models.Profile, artifact *models.UploadedArtifact, questionCount int) (*models.QuestionSet, error) {
	f.lastProfile = profile
	f.lastArtifact = artifact
	f.lastCount = questionCount
	return f.questionSet, f.err
}

func (f *fakeInterviewService) EvaluateSubmission(_ context.Context, qna []models.QA) (*models.EvaluationOutcome, error) {
	f.lastQnA = qna
	return f.outcome, f.err
}

func newTestApp(service *fakeInterviewService) *fiber.App {
	app := fiber.New()
	handler := NewInterviewHandler(service, 1024*1024)
	app.Post("/api/interview/create", handler.HandleCreate)
	app.Post("/api/interview/submit", handler.HandleSubmit)
	return app
}

func multipartBody(t *testing.T, fields map[string]string, filename string, fileBytes []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("resume_file", filename)
		require.NoError(t, err)
		_, err = part.Write(fileBytes)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestInterviewHandler_HandleCreate(t *testing.T) {
	t.Parallel()

	service := &fakeInterviewService{
		questionSet: &models.QuestionSet{
			InterviewID: "ses-백엔드_개발자-deadbeef",
			Questions:   []string{"질문1", "질문2", "질문3", "질문4", "질문5"},
		},
	}
	app := newTestApp(service)

	body, contentType := multipartBody(t, map[string]string{
		"job_title":        "백엔드 개발자",
		"experience_level": "신입",
		"cover_letter":     "자기소개서 본문",
	}, "resume.txt", []byte("이력서 본문"))

	req := httptest.NewRequest("POST", "/api/interview/create", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result models.QuestionSet
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Questions, 5)
	assert.Equal(t, "ses-백엔드_개발자-deadbeef", result.InterviewID)

	assert.Equal(t, "백엔드 개발자", service.lastProfile.JobTitle)
	assert.Equal(t, 5, service.lastCount)
	require.NotNil(t, service.lastArtifact)
	assert.Equal(t, "resume.txt", service.lastArtifact.Filename)
	assert.Equal(t, []byte("이력서 본문"), service.lastArtifact.Raw)
}

func TestInterviewHandler_HandleCreate_PracticeMode(t *testing.T) {
	t.Parallel()

	service := &fakeInterviewService{
		questionSet: &models.QuestionSet{InterviewID: "ses-x-1", Questions: []string{"질문1"}},
	}
	app := newTestApp(service)

	body, contentType := multipartBody(t, map[string]string{
		"job_title": "기획자",
		"mode":      "practice",
	}, "", nil)

	req := httptest.NewRequest("POST", "/api/interview/create", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, service.lastCount)
	assert.Nil(t, service.lastArtifact)
}

func TestInterviewHandler_HandleCreate_MissingJobTitle(t *testing.T) {
	t.Parallel()

	service := &fakeInterviewService{}
	app := newTestApp(service)

	body, contentType := multipartBody(t, map[string]string{"cover_letter": "본문"}, "", nil)
	req := httptest.NewRequest("POST", "/api/interview/create", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestInterviewHandler_HandleCreate_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	service := &fakeInterviewService{
		err: &models.UnsupportedFormatError{Filename: "resume.hwp", Allowed: models.AllowedDocumentFormats},
	}
	app := newTestApp(service)

	body, contentType := multipartBody(t, map[string]string{"job_title": "기획자"}, "resume.hwp", []byte("x"))
	req := httptest.NewRequest("POST", "/api/interview/create", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "txt")
	assert.Contains(t, string(raw), "docx")
}

func TestInterviewHandler_HandleCreate_ModelPayloadNotJSON(t *testing.T) {
	t.Parallel()

	service := &fakeInterviewService{
		err: &models.PayloadNotJSONError{Raw: "면접 질문은 다음과 같습니다..."},
	}
	app := newTestApp(service)

	body, contentType := multipartBody(t, map[string]string{"job_title": "기획자"}, "", nil)
	req := httptest.NewRequest("POST", "/api/interview/create", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "면접 질문은 다음과 같습니다")
}

func TestInterviewHandler_HandleSubmit(t *testing.T) {
	t.Parallel()

	service := &fakeInterviewService{
		outcome: &models.EvaluationOutcome{
			Report: &models.EvaluationReport{
				TotalScore:   95,
				Grade:        models.GradeExcellent,
				RadarScores:  map[models.Criterion]float64{models.CriterionLogic: 95},
				AnalysisText: "훌륭합니다.",
			},
		},
	}
	app := newTestApp(service)

	req := httptest.NewRequest("POST", "/api/interview/submit",
		strings.NewReader(`{"qnaList": [{"question": "왜 지원하셨나요?", "answer": "성장하고 싶어서요."}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report models.EvaluationReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 95, report.TotalScore)
	assert.Equal(t, models.GradeExcellent, report.Grade)

	require.Len(t, service.lastQnA, 1)
	assert.Equal(t, "왜 지원하셨나요?", service.lastQnA[0].Question)
}

func TestInterviewHandler_HandleSubmit_Degraded(t *testing.T) {
	t.Parallel()

	service := &fakeInterviewService{
		outcome: &models.EvaluationOutcome{
			Degraded: true,
			Warning:  "model response is not JSON",
			Raw:      "평가는 다음과 같습니다...",
		},
	}
	app := newTestApp(service)

	req := httptest.NewRequest("POST", "/api/interview/submit",
		strings.NewReader(`{"qnaList": [{"question": "Q", "answer": "A"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "평가는 다음과 같습니다...", payload["raw"])
	assert.NotEmpty(t, payload["warning"])
}

func TestInterviewHandler_HandleSubmit_Invalid(t *testing.T) {
	t.Parallel()

	service := &fakeInterviewService{}
	app := newTestApp(service)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed_json", body: `{"qnaList": `},
		{name: "missing_qna_list", body: `{}`},
		{name: "empty_qna_list", body: `{"qnaList": []}`},
		{name: "entry_without_question", body: `{"qnaList": [{"answer": "A"}]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("POST", "/api/interview/submit", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestInterviewHandler_HandleSubmit_InconsistentScoreData(t *testing.T) {
	t.Parallel()

	service := &fakeInterviewService{
		err: &models.InconsistentScoreDataError{QuestionID: "3", Detail: "present in questionWeights but missing from answerScores"},
	}
	app := newTestApp(service)

	req := httptest.NewRequest("POST", "/api/interview/submit",
		strings.NewReader(`{"qnaList": [{"question": "Q", "answer": "A"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"question_id":"3"`)
}
