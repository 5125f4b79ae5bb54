package domain

import "fmt"

// Criterion keys used in the oracle's scores object. The set is fixed
// by the scoring rubric; every verdict carries all five.
const (
	CriterionMaterialConcealment   = "material_concealment"
	CriterionUnityNarrative        = "unity_narrative"
	CriterionWritingStyle          = "writing_style"
	CriterionProhibitionCompliance = "prohibition_compliance"
	CriterionCharacterCount        = "character_count"
)

// CriterionScores is the per-criterion breakdown of a verdict. Each
// score is bounded by that criterion's weight in the rubric; the
// bounds here must track the rubric text in the prompt builder.
type CriterionScores struct {
	MaterialConcealment   int `json:"material_concealment" validate:"min=0,max=40"`
	UnityNarrative        int `json:"unity_narrative" validate:"min=0,max=20"`
	WritingStyle          int `json:"writing_style" validate:"min=0,max=15"`
	ProhibitionCompliance int `json:"prohibition_compliance" validate:"min=0,max=15"`
	CharacterCount        int `json:"character_count" validate:"min=0,max=10"`
}

// ByKey returns the score for the given criterion key, or 0 for an
// unknown key.
func (c CriterionScores) ByKey(key string) int {
	switch key {
	case CriterionMaterialConcealment:
		return c.MaterialConcealment
	case CriterionUnityNarrative:
		return c.UnityNarrative
	case CriterionWritingStyle:
		return c.WritingStyle
	case CriterionProhibitionCompliance:
		return c.ProhibitionCompliance
	case CriterionCharacterCount:
		return c.CharacterCount
	default:
		return 0
	}
}

// Verdict is the oracle's judgment of one generated poem.
//
// The oracle is not forced to be arithmetically consistent: the sum of
// the per-criterion scores may differ from TotalScore, and the
// pipeline deliberately does not reconcile the two.
type Verdict struct {
	// TotalScore is the overall score out of 100.
	TotalScore int `json:"total_score"`

	// Scores is the per-criterion breakdown.
	Scores CriterionScores `json:"scores"`

	// Comment is the oracle's overall assessment.
	Comment string `json:"comment"`

	// Strengths describes what the poem did well.
	Strengths string `json:"strengths"`

	// Improvements describes what the poem should fix.
	Improvements string `json:"improvements"`
}

// Placeholder fills text fields whose source value is unavailable,
// both in prompts and in sentinel verdicts.
const Placeholder = "N/A"

// SentinelVerdict is the fallback substituted when the oracle call or
// its parsing fails. All scores are zero and the comment carries the
// failure description so it surfaces in the report.
func SentinelVerdict(err error) Verdict {
	return Verdict{
		Comment:      fmt.Sprintf("evaluation error: %v", err),
		Strengths:    Placeholder,
		Improvements: Placeholder,
	}
}
