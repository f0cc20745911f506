package models

// Profile is the candidate's job profile collected at request ingress.
// FreeText accumulates the typed cover letter plus any extracted
// document text; it is only ever appended to.
type Profile struct {
	JobTitle        string
	ExperienceLevel string
	FreeText        string
}

// UploadedArtifact is a document uploaded alongside the profile. It
// lives for a single pipeline invocation and is discarded after text
// extraction.
type UploadedArtifact struct {
	Filename string
	Raw      []byte
}

// Empty reports whether no document was actually supplied. Distinct
// from an unsupported format: an empty artifact skips extraction
// entirely.
func (a *UploadedArtifact) Empty() bool {
	return a == nil || a.Filename == "" || len(a.Raw) == 0
}

// QuestionSet is the question-generation result returned to the client.
type QuestionSet struct {
	InterviewID string   `json:"interviewId"`
	Questions   []string `json:"questions"`
}

// QA is one question/answer pair from the candidate's submission.
type QA struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

// SubmitRequest is the body of POST /api/interview/submit.
type SubmitRequest struct {
	QnAList []QA `json:"qnaList" validate:"required,min=1,dive"`
}

// QuestionReview is the model's per-question feedback.
type QuestionReview struct {
	ID                int      `json:"id"`
	Title             string   `json:"title"`
	Answer            string   `json:"answer"`
	GoodPoints        []string `json:"goodPoints"`
	ImprovementPoints []string `json:"improvementPoints"`
}

// EvaluationReport is the full evaluation returned on a successful
// submission: the computed scorecard plus the model's narrative parts.
type EvaluationReport struct {
	TotalScore   int                   `json:"totalScore"`
	Grade        Grade                 `json:"grade"`
	RadarScores  map[Criterion]float64 `json:"radarScores"`
	AnalysisText string                `json:"analysisText"`
	Questions    []QuestionReview      `json:"questions"`
}

// EvaluationOutcome wraps a submission result. When the model response
// could not be recovered into the evaluation schema the outcome is
// degraded: Report is nil and Raw carries the model's original text for
// the client to inspect.
type EvaluationOutcome struct {
	Report   *EvaluationReport
	Degraded bool
	Warning  string
	Raw      string
}
