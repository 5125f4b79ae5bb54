// Package evaluation implements the scoring pipeline: building rubric
// prompts from stored generation records, submitting them to the
// scoring oracle, aggregating the verdicts per model, and rendering
// the Markdown report.
package evaluation

import "github.com/he-be/mansion-poem/internal/domain"

// Criterion is one weighted entry of the scoring rubric.
type Criterion struct {
	// Key matches the field name the oracle uses in its scores object.
	Key string

	// Name is the human-readable label used in the report.
	Name string

	// Weight is the criterion's maximum score. Weights sum to 100.
	Weight int
}

// criteria is the fixed scoring rubric, in presentation order. The
// weights must stay in lockstep with the rubric wording in the prompt
// template and the bounds on domain.CriterionScores; never change one
// without the others.
var criteria = []Criterion{
	{Key: domain.CriterionMaterialConcealment, Name: "Material concealment", Weight: 40},
	{Key: domain.CriterionUnityNarrative, Name: "Unity & narrative", Weight: 20},
	{Key: domain.CriterionWritingStyle, Name: "Writing style", Weight: 15},
	{Key: domain.CriterionProhibitionCompliance, Name: "Prohibition compliance", Weight: 15},
	{Key: domain.CriterionCharacterCount, Name: "Character count", Weight: 10},
}

// Criteria returns the rubric entries in presentation order.
func Criteria() []Criterion {
	out := make([]Criterion, len(criteria))
	copy(out, criteria)
	return out
}
