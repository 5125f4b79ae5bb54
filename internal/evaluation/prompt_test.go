package evaluation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/he-be/mansion-poem/internal/domain"
)

func testCards() []domain.SelectedCard {
	return []domain.SelectedCard{
		{
			ConditionCard: domain.ConditionCard{Category: "location", ConditionText: "north facing"},
			SelectedPoem:  domain.PoemCard{PoemText: "light that takes its time"},
		},
		{
			ConditionCard: domain.ConditionCard{Category: "access", ConditionText: "10 minutes to the station by bus"},
			SelectedPoem:  domain.PoemCard{PoemText: "a quiet distance from the noise"},
		},
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	poem := domain.GeneratedPoem{Title: "Stillness", Poem: "A slow morning.\nLight settles in."}

	first := BuildPrompt(testCards(), poem)
	second := BuildPrompt(testCards(), poem)

	assert.Equal(t, first, second, "identical inputs must yield byte-identical prompts")
}

func TestBuildPrompt_Content(t *testing.T) {
	poem := domain.GeneratedPoem{Title: "Stillness", Poem: "A slow morning."}
	prompt := BuildPrompt(testCards(), poem)

	assert.Contains(t, prompt, "1. [location] north facing")
	assert.Contains(t, prompt, "-> Poem: light that takes its time")
	assert.Contains(t, prompt, "2. [access] 10 minutes to the station by bus")
	assert.Contains(t, prompt, "Title: Stillness")
	assert.Contains(t, prompt, "A slow morning.")

	// The rubric wording carries the weights the oracle scores against.
	assert.Contains(t, prompt, "100 points total")
	assert.Contains(t, prompt, "**Material concealment** (40 pts)")
	assert.Contains(t, prompt, "**Unity & narrative** (20 pts)")
	assert.Contains(t, prompt, "**Writing style** (15 pts)")
	assert.Contains(t, prompt, "**Prohibition compliance** (15 pts)")
	assert.Contains(t, prompt, "**Character count** (10 pts)")

	assert.Contains(t, prompt, "```json")
	assert.Contains(t, prompt, `"total_score"`)
}

func TestBuildPrompt_CharacterCount(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "ascii", body: "hello", want: 5},
		{name: "empty", body: "", want: 0},
		{name: "multibyte japanese", body: "春の詩", want: 3},
		{name: "mixed with newline", body: "丘の上\nfive", want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt(nil, domain.GeneratedPoem{Title: "t", Poem: tt.body})
			assert.Contains(t, prompt, fmt.Sprintf("Current body length: %d characters", tt.want))
		})
	}
}

func TestBuildPrompt_MissingFieldsUsePlaceholder(t *testing.T) {
	cards := []domain.SelectedCard{{}}
	prompt := BuildPrompt(cards, domain.GeneratedPoem{Title: "t", Poem: "p"})

	require.Contains(t, prompt, "1. [N/A] N/A")
	assert.Contains(t, prompt, "-> Poem: N/A")
}

func TestCriteria_WeightsSumTo100(t *testing.T) {
	total := 0
	for _, c := range Criteria() {
		total += c.Weight
	}
	assert.Equal(t, 100, total)
}

func TestBuildPrompt_NoCards(t *testing.T) {
	prompt := BuildPrompt(nil, domain.GeneratedPoem{Title: "t", Poem: "p"})
	assert.True(t, strings.Contains(prompt, "## Source card pairs"))
}
