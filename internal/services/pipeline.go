package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"interview-evaluator/internal/models"
)

type InterviewService interface {
	CreateInterview(ctx context.Context, profile models.Profile, artifact *models.UploadedArtifact, questionCount int) (*models.QuestionSet, error)
	EvaluateSubmission(ctx context.Context, qna []models.QA) (*models.EvaluationOutcome, error)
}

type interviewService struct {
	llm           LLMService
	normalizer    DocumentNormalizer
	recoverer     OutputRecoverer
	aggregator    ScoreAggregator
	promptBuilder *PromptBuilder
}

func NewInterviewService(
	llm LLMService,
	normalizer DocumentNormalizer,
	recoverer OutputRecoverer,
	aggregator ScoreAggregator,
) InterviewService {
	return &interviewService{
		llm:           llm,
		normalizer:    normalizer,
		recoverer:     recoverer,
		aggregator:    aggregator,
		promptBuilder: NewPromptBuilder(),
	}
}

// CreateInterview builds the candidate's free text (optionally appending
// extracted document text), asks the model for questions, and recovers
// the question set from its response.
func (s *interviewService) CreateInterview(ctx context.Context, profile models.Profile, artifact *models.UploadedArtifact, questionCount int) (*models.QuestionSet, error) {
	if !artifact.Empty() {
		text, err := s.normalizer.ExtractText(artifact)
		if err != nil {
			return nil, err
		}
		profile.FreeText += "\n" + text
	}

	interviewID := newInterviewID(profile.JobTitle)
	prompt := s.promptBuilder.BuildQuestionPrompt(profile, questionCount, interviewID)

	raw, err := s.llm.GenerateText(ctx, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	payload, err := s.recoverer.Recover(raw, []string{"questions"})
	if err != nil {
		return nil, err
	}
	if payload.Mode == RecoverySubstring {
		log.Println("⚠️ Question payload recovered from wrapped model output")
	}

	questions, err := decodeQuestions(payload.Object["questions"])
	if err != nil {
		return nil, err
	}

	// The model is asked to echo the session id but is not trusted to.
	if echoed, ok := payload.Object["interviewId"].(string); ok && echoed != "" {
		interviewID = echoed
	}

	return &models.QuestionSet{
		InterviewID: interviewID,
		Questions:   questions,
	}, nil
}

// EvaluateSubmission asks the model to weigh and score the candidate's
// answers, then computes the scorecard locally. A response that cannot
// be recovered into the evaluation schema degrades to a raw-text outcome
// instead of failing: the model's text is still useful to the caller.
func (s *interviewService) EvaluateSubmission(ctx context.Context, qna []models.QA) (*models.EvaluationOutcome, error) {
	prompt := s.promptBuilder.BuildEvaluationPrompt(qna)

	raw, err := s.llm.GenerateText(ctx, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	payload, err := s.recoverer.Recover(raw, []string{"questionWeights", "answerScores"})
	if err != nil {
		if outcome := degradedOutcome(err, raw); outcome != nil {
			return outcome, nil
		}
		return nil, err
	}

	weights, scores, err := decodeMatrices(payload.Object)
	if err != nil {
		if outcome := degradedOutcome(err, raw); outcome != nil {
			return outcome, nil
		}
		return nil, err
	}

	scorecard, err := s.aggregator.Aggregate(weights, scores)
	if err != nil {
		// Aggregation failures are invariant violations, never degraded.
		return nil, err
	}

	report := &models.EvaluationReport{
		TotalScore:  scorecard.TotalScore,
		Grade:       scorecard.Grade,
		RadarScores: scorecard.RadarScores,
	}
	if analysis, ok := payload.Object["analysisText"].(string); ok {
		report.AnalysisText = analysis
	}
	report.Questions = decodeQuestionReviews(payload.Object["questions"])

	return &models.EvaluationOutcome{Report: report}, nil
}

// degradedOutcome converts a recovery-layer failure into a warning
// outcome carrying the original model text. Other failures return nil.
func degradedOutcome(err error, raw string) *models.EvaluationOutcome {
	var notJSON *models.PayloadNotJSONError
	var mismatch *models.SchemaMismatchError
	if errors.As(err, &notJSON) || errors.As(err, &mismatch) {
		log.Printf("⚠️ Evaluation degraded to raw output: %v\n", err)
		return &models.EvaluationOutcome{
			Degraded: true,
			Warning:  err.Error(),
			Raw:      raw,
		}
	}
	return nil
}

func decodeQuestions(value interface{}) ([]string, error) {
	items, ok := value.([]interface{})
	if !ok {
		return nil, &models.SchemaMismatchError{Detail: "questions is not an array"}
	}

	questions := make([]string, 0, len(items))
	for _, item := range items {
		question, ok := item.(string)
		if !ok {
			return nil, &models.SchemaMismatchError{Detail: "questions contains a non-string entry"}
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func decodeMatrices(object map[string]interface{}) (models.QuestionWeights, models.AnswerScores, error) {
	rawWeights, ok := object["questionWeights"].(map[string]interface{})
	if !ok {
		return nil, nil, &models.SchemaMismatchError{Detail: "questionWeights is not an object"}
	}
	rawScores, ok := object["answerScores"].(map[string]interface{})
	if !ok {
		return nil, nil, &models.SchemaMismatchError{Detail: "answerScores is not an object"}
	}

	weights := make(models.QuestionWeights, len(rawWeights))
	for qid, entry := range rawWeights {
		perCriterion, ok := entry.(map[string]interface{})
		if !ok {
			return nil, nil, &models.SchemaMismatchError{Detail: "questionWeights entry for question " + qid + " is not an object"}
		}
		weights[qid] = make(map[models.Criterion]models.ImportanceLevel, len(perCriterion))
		for criterion, level := range perCriterion {
			label, ok := level.(string)
			if !ok {
				return nil, nil, &models.SchemaMismatchError{Detail: "non-string importance level for question " + qid}
			}
			weights[qid][models.Criterion(criterion)] = models.ImportanceLevel(label)
		}
	}

	scores := make(models.AnswerScores, len(rawScores))
	for qid, entry := range rawScores {
		perCriterion, ok := entry.(map[string]interface{})
		if !ok {
			return nil, nil, &models.SchemaMismatchError{Detail: "answerScores entry for question " + qid + " is not an object"}
		}
		scores[qid] = make(map[models.Criterion]int, len(perCriterion))
		for criterion, value := range perCriterion {
			score, err := coerceScore(value, fmt.Sprintf("question %s criterion %s", qid, criterion))
			if err != nil {
				return nil, nil, err
			}
			scores[qid][models.Criterion(criterion)] = score
		}
	}

	return weights, scores, nil
}

// decodeQuestionReviews is best-effort: per-question feedback is
// narrative garnish and a malformed entry must not sink a computed
// scorecard.
func decodeQuestionReviews(value interface{}) []models.QuestionReview {
	if value == nil {
		return nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	var reviews []models.QuestionReview
	if err := json.Unmarshal(encoded, &reviews); err != nil {
		return nil
	}
	return reviews
}

// newInterviewID builds a session id in the form ses-<job>-<hex>.
func newInterviewID(jobTitle string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("ses-%s-%s", strings.ReplaceAll(jobTitle, " ", "_"), suffix)
}
