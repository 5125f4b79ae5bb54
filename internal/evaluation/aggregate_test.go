package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/he-be/mansion-poem/internal/domain"
)

func scoredRecord(id, model string, total int, latencyMs int64) ScoredRecord {
	return ScoredRecord{
		Record: domain.GenerationRecord{
			ID:               id,
			LLMModel:         model,
			GenerationTimeMs: latencyMs,
			Poem:             domain.GeneratedPoem{Title: "title-" + id, Poem: "body-" + id},
		},
		Verdict: domain.Verdict{
			TotalScore: total,
			Scores: domain.CriterionScores{
				MaterialConcealment:   total * 40 / 100,
				UnityNarrative:        total * 20 / 100,
				WritingStyle:          total * 15 / 100,
				ProhibitionCompliance: total * 15 / 100,
				CharacterCount:        total * 10 / 100,
			},
		},
	}
}

func TestAggregate_SingleRecord(t *testing.T) {
	stats := Aggregate([]ScoredRecord{scoredRecord("1", "model-a", 75, 1200)})

	require.Len(t, stats, 1)
	s := stats["model-a"]
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 75.0, s.MeanScore)
	assert.Equal(t, 0.0, s.StdDev, "population std dev of a single element is 0")
	assert.Equal(t, 75, s.MaxScore)
	assert.Equal(t, 75, s.MinScore)
	assert.Equal(t, 1200.0, s.MeanGenerationMs)
	assert.Equal(t, "1", s.Best.Record.ID)
	assert.Nil(t, s.Worst, "single-member groups have no distinct worst exemplar")
}

func TestAggregate_TwoRecordsOneModel(t *testing.T) {
	stats := Aggregate([]ScoredRecord{
		scoredRecord("1", "model-a", 80, 1000),
		scoredRecord("2", "model-a", 60, 3000),
	})

	require.Len(t, stats, 1)
	s := stats["model-a"]
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 70.0, s.MeanScore)
	assert.Equal(t, 10.0, s.StdDev)
	assert.Equal(t, 80, s.MaxScore)
	assert.Equal(t, 60, s.MinScore)
	assert.Equal(t, 2000.0, s.MeanGenerationMs)
	assert.Equal(t, "1", s.Best.Record.ID)
	require.NotNil(t, s.Worst)
	assert.Equal(t, "2", s.Worst.Record.ID)
}

func TestAggregate_GroupsNeverMix(t *testing.T) {
	stats := Aggregate([]ScoredRecord{
		scoredRecord("1", "model-a", 80, 100),
		scoredRecord("2", "model-b", 20, 100),
		scoredRecord("3", "model-a", 60, 100),
		scoredRecord("4", "model-b", 40, 100),
	})

	require.Len(t, stats, 2)

	a := stats["model-a"]
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, 70.0, a.MeanScore)
	assert.Equal(t, "1", a.Best.Record.ID)
	require.NotNil(t, a.Worst)
	assert.Equal(t, "3", a.Worst.Record.ID)

	b := stats["model-b"]
	assert.Equal(t, 2, b.Count)
	assert.Equal(t, 30.0, b.MeanScore)
	assert.Equal(t, "4", b.Best.Record.ID)
	require.NotNil(t, b.Worst)
	assert.Equal(t, "2", b.Worst.Record.ID)
}

func TestAggregate_TieBreaking(t *testing.T) {
	// Equal top scores: the earliest record wins best. Equal bottom
	// scores: the latest record is worst.
	stats := Aggregate([]ScoredRecord{
		scoredRecord("1", "model-a", 70, 100),
		scoredRecord("2", "model-a", 70, 100),
		scoredRecord("3", "model-a", 50, 100),
		scoredRecord("4", "model-a", 50, 100),
	})

	s := stats["model-a"]
	assert.Equal(t, "1", s.Best.Record.ID)
	require.NotNil(t, s.Worst)
	assert.Equal(t, "4", s.Worst.Record.ID)
}

func TestAggregate_CriterionMeans(t *testing.T) {
	stats := Aggregate([]ScoredRecord{
		scoredRecord("1", "model-a", 80, 100), // concealment 32
		scoredRecord("2", "model-a", 60, 100), // concealment 24
	})

	s := stats["model-a"]
	assert.InDelta(t, 28.0, s.CriterionMeans[domain.CriterionMaterialConcealment], 1e-9)
	assert.InDelta(t, 14.0, s.CriterionMeans[domain.CriterionUnityNarrative], 1e-9)
	assert.InDelta(t, 7.0, s.CriterionMeans[domain.CriterionCharacterCount], 1e-9)
}

func TestAggregate_SentinelVerdictsCount(t *testing.T) {
	sentinel := ScoredRecord{
		Record:  domain.GenerationRecord{ID: "2", LLMModel: "model-a"},
		Verdict: domain.SentinelVerdict(assert.AnError),
	}
	stats := Aggregate([]ScoredRecord{scoredRecord("1", "model-a", 80, 100), sentinel})

	s := stats["model-a"]
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 40.0, s.MeanScore)
	assert.Equal(t, 0, s.MinScore)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
