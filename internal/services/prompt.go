package services

import (
	"fmt"
	"strings"

	"interview-evaluator/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionPrompt creates the prompt for interview question generation.
// The session id is embedded so the model echoes it back in interviewId.
func (pb *PromptBuilder) BuildQuestionPrompt(profile models.Profile, questionCount int, interviewID string) string {
	var questionLines []string
	for i := 1; i <= questionCount; i++ {
		questionLines = append(questionLines, fmt.Sprintf("    \"질문 %d 내용\"", i))
	}

	return fmt.Sprintf(`당신은 전문 면접관입니다.
아래 직무, 경력, 자기소개서를 분석하여 지원자의 역량을 검증할 수 있는 면접 질문 %d개를 생성하세요.

지원 직무: %s
경력 수준: %s
자기소개서:
"""
%s
"""

반드시 아래 JSON 형식으로만 응답하세요. 다른 말은 하지 마세요:
{
  "questions": [
%s
  ],
  "interviewId": "%s"
}`,
		questionCount,
		profile.JobTitle,
		profile.ExperienceLevel,
		profile.FreeText,
		strings.Join(questionLines, ",\n"),
		interviewID,
	)
}

// BuildEvaluationPrompt creates the prompt for submission evaluation.
// The model assigns per-question importance levels and 0-100 scores per
// criterion; the final scorecard is computed locally, never by the model.
func (pb *PromptBuilder) BuildEvaluationPrompt(qna []models.QA) string {
	var qnaText strings.Builder
	for i, item := range qna {
		qnaText.WriteString(fmt.Sprintf("Q%d: %s\nA: %s\n\n", i+1, item.Question, item.Answer))
	}

	return fmt.Sprintf(`당신은 AI 면접 평가 전문가입니다.
아래 면접 Q/A 리스트를 기반으로 질문 중요도, 점수, 분석을 수행하세요.

[면접 데이터]
%s
해야 할 작업:
1) 각 질문의 중요도를 5개 기준(domain_fit, logic, specificity, keyword_coverage, attitude)별로 평가 (high / med-high / med / low)
2) 각 질문 답변을 기준별로 0~100점 평가
3) 각 질문별 Good / Improvement 포인트 생성
4) 전체 총평 작성

반드시 JSON만 출력하세요:

{
  "questionWeights": {
      "1": {"domain_fit": "high", "logic": "med", "specificity": "high", "keyword_coverage": "low", "attitude": "high"},
      ...
  },
  "answerScores": {
      "1": {"domain_fit": 85, "logic": 90, "specificity": 88, "keyword_coverage": 72, "attitude": 93},
      ...
  },
  "analysisText": "(전체 총평)",
  "questions": [
    {
      "id": 1,
      "title": "(질문 내용)",
      "answer": "(지원자 답변)",
      "goodPoints": ["잘한 점1", "잘한 점2"],
      "improvementPoints": ["아쉬운 점1", "아쉬운 점2"]
    }
  ]
}`, qnaText.String())
}
