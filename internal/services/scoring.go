package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"interview-evaluator/internal/models"
)

type ScoreAggregator interface {
	Aggregate(weights models.QuestionWeights, scores models.AnswerScores) (*models.Scorecard, error)
}

type scoreAggregator struct{}

func NewScoreAggregator() ScoreAggregator {
	return &scoreAggregator{}
}

// Aggregate computes the final scorecard from the per-question weight
// and score matrices. Pure function: identical inputs always produce an
// identical scorecard.
func (s *scoreAggregator) Aggregate(weights models.QuestionWeights, scores models.AnswerScores) (*models.Scorecard, error) {
	if err := validateMatrices(weights, scores); err != nil {
		return nil, err
	}

	questionIDs := sortedQuestionIDs(weights)
	criteria := models.Criteria()

	radar := make(map[models.Criterion]float64, len(criteria))
	var criterionSum float64

	for _, criterion := range criteria {
		var weightedSum, weightTotal float64

		for _, qid := range questionIDs {
			weight, _ := weights[qid][criterion].Weight()
			weightedSum += weight * float64(scores[qid][criterion])
			weightTotal += weight
		}

		if weightTotal == 0 {
			return nil, models.ErrDivisionByZeroScore
		}

		final := round2(weightedSum / weightTotal)
		radar[criterion] = final
		criterionSum += final
	}

	// Criteria are not reweighted against each other; the per-question
	// weighting has already been absorbed per criterion.
	total := int(math.Round(criterionSum / float64(len(criteria))))

	return &models.Scorecard{
		RadarScores: radar,
		TotalScore:  total,
		Grade:       models.GradeFor(total),
	}, nil
}

func validateMatrices(weights models.QuestionWeights, scores models.AnswerScores) error {
	for qid := range weights {
		if _, ok := scores[qid]; !ok {
			return &models.InconsistentScoreDataError{
				QuestionID: qid,
				Detail:     "present in questionWeights but missing from answerScores",
			}
		}
	}
	for qid := range scores {
		if _, ok := weights[qid]; !ok {
			return &models.InconsistentScoreDataError{
				QuestionID: qid,
				Detail:     "present in answerScores but missing from questionWeights",
			}
		}
	}

	criteria := models.Criteria()

	for qid, questionWeights := range weights {
		if len(questionWeights) != len(criteria) {
			return &models.InconsistentScoreDataError{
				QuestionID: qid,
				Detail:     fmt.Sprintf("expected %d weighted criteria, got %d", len(criteria), len(questionWeights)),
			}
		}
		for _, criterion := range criteria {
			level, ok := questionWeights[criterion]
			if !ok {
				return &models.InconsistentScoreDataError{
					QuestionID: qid,
					Detail:     fmt.Sprintf("missing weight for criterion %s", criterion),
				}
			}
			if _, ok := level.Weight(); !ok {
				return &models.InconsistentScoreDataError{
					QuestionID: qid,
					Detail:     fmt.Sprintf("unrecognized importance level %q for criterion %s", level, criterion),
				}
			}
		}
	}

	for qid, questionScores := range scores {
		if len(questionScores) != len(criteria) {
			return &models.InconsistentScoreDataError{
				QuestionID: qid,
				Detail:     fmt.Sprintf("expected %d scored criteria, got %d", len(criteria), len(questionScores)),
			}
		}
		for _, criterion := range criteria {
			score, ok := questionScores[criterion]
			if !ok {
				return &models.InconsistentScoreDataError{
					QuestionID: qid,
					Detail:     fmt.Sprintf("missing score for criterion %s", criterion),
				}
			}
			if score < 0 || score > 100 {
				return &models.InconsistentScoreDataError{
					QuestionID: qid,
					Detail:     fmt.Sprintf("score %d for criterion %s outside [0,100]", score, criterion),
				}
			}
		}
	}

	return nil
}

// sortedQuestionIDs fixes the summation order so that the result does
// not depend on map iteration. Numeric ids sort numerically.
func sortedQuestionIDs(weights models.QuestionWeights) []string {
	ids := make([]string, 0, len(weights))
	for qid := range weights {
		ids = append(ids, qid)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
