package models

// Criterion is one of the five fixed evaluation dimensions. Every weight
// matrix and score matrix is indexed by exactly this set.
type Criterion string

const (
	CriterionDomainFit       Criterion = "domain_fit"
	CriterionLogic           Criterion = "logic"
	CriterionSpecificity     Criterion = "specificity"
	CriterionKeywordCoverage Criterion = "keyword_coverage"
	CriterionAttitude        Criterion = "attitude"
)

// Criteria returns the criterion set in its fixed order.
func Criteria() []Criterion {
	return []Criterion{
		CriterionDomainFit,
		CriterionLogic,
		CriterionSpecificity,
		CriterionKeywordCoverage,
		CriterionAttitude,
	}
}

// ImportanceLevel is the per-question per-criterion importance label
// assigned by the model. Closed set; anything else is a data-contract
// violation.
type ImportanceLevel string

const (
	ImportanceHigh    ImportanceLevel = "high"
	ImportanceMedHigh ImportanceLevel = "med-high"
	ImportanceMed     ImportanceLevel = "med"
	ImportanceLow     ImportanceLevel = "low"
)

var weightMap = map[ImportanceLevel]float64{
	ImportanceHigh:    1.0,
	ImportanceMedHigh: 0.8,
	ImportanceMed:     0.6,
	ImportanceLow:     0.4,
}

// Weight returns the numeric multiplier for the level. The second return
// is false for unrecognized labels.
func (l ImportanceLevel) Weight() (float64, bool) {
	w, ok := weightMap[l]
	return w, ok
}

// QuestionWeights maps a question id to its per-criterion importance levels.
type QuestionWeights map[string]map[Criterion]ImportanceLevel

// AnswerScores maps a question id to its per-criterion scores in [0,100].
type AnswerScores map[string]map[Criterion]int

// Grade is the final letter grade of a scorecard.
type Grade string

const (
	GradeExcellent Grade = "우수"
	GradeGood      Grade = "양호"
	GradeFair      Grade = "보통"
	GradePoor      Grade = "미흡"
)

// GradeFor maps an overall score to its grade. Thresholds are inclusive
// on the lower bound.
func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return GradeExcellent
	case score >= 80:
		return GradeGood
	case score >= 70:
		return GradeFair
	default:
		return GradePoor
	}
}

// Scorecard is the aggregated evaluation report. Immutable once computed.
type Scorecard struct {
	RadarScores map[Criterion]float64 `json:"radarScores"`
	TotalScore  int                   `json:"totalScore"`
	Grade       Grade                 `json:"grade"`
}
