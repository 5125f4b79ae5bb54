package evaluation

import (
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/he-be/mansion-poem/internal/domain"
)

// promptText is the evaluation prompt sent to the scoring oracle. The
// criterion weights written into the rubric must match the criteria
// table; the oracle scores against this text, not against our code.
var promptText = `You are the creative director of a top-tier real-estate advertising agency. Score the generated condominium poem below strictly against the rubric.

## Source card pairs
{{range .Cards}}{{.Index}}. [{{.Category}}] {{.Condition}}
   -> Poem: {{.Poem}}
{{end}}
## Generated poem
Title: {{.Title}}
Body:
{{.Body}}

## Scoring rubric (100 points total)

1. **Material concealment** (40 pts)
   - Can the original negative conditions ("north facing", "cliff", "leasehold", "10 minutes to the station by bus", ...) be inferred from the generated text?
   - Fully concealed: 40 pts / faintly hinted: 20-30 pts / explicitly mentioned: 0-10 pts

2. **Unity & narrative** (20 pts)
   - Does the poem extract the soul of the cards and recreate it as a single story?
   - Integrated by one theme rather than a mere enumeration?

3. **Writing style** (15 pts)
   - Short sentences, noun-ending phrases, and omitted subjects used well?
   - Rhythm and lingering resonance?

4. **Prohibition compliance** (15 pts)
   - No polite or speculative forms, no direct address of the reader, no superlatives such as "best" or "perfect".

5. **Character count** (10 pts)
   - Target range 180-240 characters (no penalty within 10 characters of the range).
   - Current body length: {{.CharCount}} characters

## Output format
Respond with only a fenced JSON object in exactly this form (no explanations):
` + "```json" + `
{
  "total_score": 85,
  "scores": {
    "material_concealment": 38,
    "unity_narrative": 18,
    "writing_style": 13,
    "prohibition_compliance": 14,
    "character_count": 10
  },
  "comment": "overall assessment (max 100 characters)",
  "strengths": "what works well (max 50 characters)",
  "improvements": "what to fix (max 50 characters)"
}
` + "```"

var promptTemplate = template.Must(template.New("evaluation").Parse(promptText))

// promptCard is one card pairing pre-rendered for the template, with
// placeholders already substituted for missing fields.
type promptCard struct {
	Index     int
	Category  string
	Condition string
	Poem      string
}

type promptData struct {
	Cards     []promptCard
	Title     string
	Body      string
	CharCount int
}

// BuildPrompt renders the rubric-annotated evaluation request for one
// generated poem. It is deterministic and side-effect free: identical
// inputs yield byte-identical prompts.
//
// The character count injected into the rubric is computed here from
// the poem body, counting runes so multi-byte text measures the way
// the generator's own length budget does.
func BuildPrompt(cards []domain.SelectedCard, poem domain.GeneratedPoem) string {
	data := promptData{
		Title:     poem.Title,
		Body:      poem.Poem,
		CharCount: utf8.RuneCountInString(poem.Poem),
	}

	for i, card := range cards {
		data.Cards = append(data.Cards, promptCard{
			Index:     i + 1,
			Category:  orPlaceholder(card.ConditionCard.Category),
			Condition: orPlaceholder(card.ConditionCard.ConditionText),
			Poem:      orPlaceholder(card.SelectedPoem.PoemText),
		})
	}

	var sb strings.Builder
	// The template is compiled from fixed text; execution over plain
	// structs cannot fail.
	if err := promptTemplate.Execute(&sb, data); err != nil {
		panic(err)
	}
	return sb.String()
}

// orPlaceholder substitutes the placeholder token for absent values.
func orPlaceholder(s string) string {
	if s == "" {
		return domain.Placeholder
	}
	return s
}
