package evaluation

import (
	"math"
	"sort"

	"github.com/he-be/mansion-poem/internal/domain"
)

// ScoredRecord pairs a generation record with its verdict.
type ScoredRecord struct {
	Record  domain.GenerationRecord
	Verdict domain.Verdict
}

// ModelStats is the aggregate view of one model's verdicts, computed
// once per run and discarded after the report is rendered.
type ModelStats struct {
	// Model is the grouping key (the record's llm_model field).
	Model string

	// Count is the number of evaluated records in the group.
	Count int

	// MeanScore and StdDev summarize the total scores. StdDev is the
	// population standard deviation: a single-member group reports 0.
	MeanScore float64
	StdDev    float64

	// MaxScore and MinScore bound the group's total scores.
	MaxScore int
	MinScore int

	// MeanGenerationMs is the mean generation latency.
	MeanGenerationMs float64

	// CriterionMeans maps each rubric key to the group's mean score
	// for that criterion.
	CriterionMeans map[string]float64

	// Best is the highest-scoring record. Ties go to the earliest
	// record in input order.
	Best ScoredRecord

	// Worst is the lowest-scoring record, with ties going to the
	// latest record in input order. Nil when the group has a single
	// member: the sole record is already shown as Best.
	Worst *ScoredRecord
}

// Aggregate groups scored records by model identifier and computes
// per-group summary statistics.
//
// Grouping is by llm_model alone, not (provider, model): two providers
// serving the same model name are folded into one group. That matches
// how the log store is queried in practice and is a documented
// limitation rather than an accident.
func Aggregate(scored []ScoredRecord) map[string]ModelStats {
	groups := make(map[string][]ScoredRecord)
	var order []string
	for _, sr := range scored {
		model := sr.Record.LLMModel
		if _, seen := groups[model]; !seen {
			order = append(order, model)
		}
		groups[model] = append(groups[model], sr)
	}

	stats := make(map[string]ModelStats, len(groups))
	for _, model := range order {
		stats[model] = aggregateGroup(model, groups[model])
	}
	return stats
}

func aggregateGroup(model string, group []ScoredRecord) ModelStats {
	n := float64(len(group))

	var scoreSum, latencySum float64
	maxScore := group[0].Verdict.TotalScore
	minScore := group[0].Verdict.TotalScore
	criterionSums := make(map[string]float64, len(criteria))

	for _, sr := range group {
		score := sr.Verdict.TotalScore
		scoreSum += float64(score)
		latencySum += float64(sr.Record.GenerationTimeMs)
		if score > maxScore {
			maxScore = score
		}
		if score < minScore {
			minScore = score
		}
		for _, c := range criteria {
			criterionSums[c.Key] += float64(sr.Verdict.Scores.ByKey(c.Key))
		}
	}

	mean := scoreSum / n

	var variance float64
	for _, sr := range group {
		d := float64(sr.Verdict.TotalScore) - mean
		variance += d * d
	}
	variance /= n

	criterionMeans := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		criterionMeans[c.Key] = criterionSums[c.Key] / n
	}

	// Stable descending sort keeps input order among equal scores, so
	// the first entry is the earliest top scorer and the last entry is
	// the latest bottom scorer.
	ranked := make([]ScoredRecord, len(group))
	copy(ranked, group)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Verdict.TotalScore > ranked[j].Verdict.TotalScore
	})

	stats := ModelStats{
		Model:            model,
		Count:            len(group),
		MeanScore:        mean,
		StdDev:           math.Sqrt(variance),
		MaxScore:         maxScore,
		MinScore:         minScore,
		MeanGenerationMs: latencySum / n,
		CriterionMeans:   criterionMeans,
		Best:             ranked[0],
	}
	if len(ranked) > 1 {
		worst := ranked[len(ranked)-1]
		stats.Worst = &worst
	}
	return stats
}
