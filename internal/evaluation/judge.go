package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/he-be/mansion-poem/internal/domain"
)

// LLMClient is the oracle transport the judge depends on.
type LLMClient interface {
	// Complete sends a single user-role prompt and returns the reply's
	// text content.
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// GetModel returns the model identifier used for scoring.
	GetModel() string
}

// OracleJudge submits evaluation prompts to the scoring oracle and
// parses its free-text replies into verdicts.
//
// Evaluate returns an explicit error instead of swallowing failures;
// the runner decides what a failed evaluation means (it substitutes
// the sentinel verdict and keeps going). Exactly one outbound request
// is made per call: there is no retry loop.
type OracleJudge struct {
	client      LLMClient
	validate    *validator.Validate
	temperature float64
	maxTokens   int
}

// NewOracleJudge creates a judge over the given oracle client. A low
// temperature keeps scoring consistent across records.
func NewOracleJudge(client LLMClient, temperature float64, maxTokens int) (*OracleJudge, error) {
	if client == nil {
		return nil, fmt.Errorf("oracle client cannot be nil")
	}
	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("temperature %.2f out of range [0, 2]", temperature)
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", maxTokens)
	}

	return &OracleJudge{
		client:      client,
		validate:    validator.New(),
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Model returns the oracle's model identifier, for logs and the report
// header.
func (j *OracleJudge) Model() string { return j.client.GetModel() }

// oracleReply is the wire shape of the oracle's JSON verdict. The
// score fields are pointers so that missing keys are distinguishable
// from legitimate zeros and rejected at this boundary.
type oracleReply struct {
	TotalScore   *int                    `json:"total_score" validate:"required,min=0,max=100"`
	Scores       *domain.CriterionScores `json:"scores" validate:"required"`
	Comment      string                  `json:"comment"`
	Strengths    string                  `json:"strengths"`
	Improvements string                  `json:"improvements"`
}

// Evaluate sends the prompt to the oracle and parses the reply into a
// verdict. Any transport failure, non-success status, unparsable
// content, or schema mismatch is returned as an error; the verdict is
// only valid when the error is nil.
func (j *OracleJudge) Evaluate(ctx context.Context, prompt string) (domain.Verdict, error) {
	options := map[string]any{
		"temperature": j.temperature,
		"max_tokens":  j.maxTokens,
	}

	response, err := j.client.Complete(ctx, prompt, options)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("oracle call failed: %w", err)
	}

	return j.parseVerdict(response)
}

// parseVerdict extracts and validates the JSON verdict from the
// oracle's free-text reply.
func (j *OracleJudge) parseVerdict(response string) (domain.Verdict, error) {
	jsonStr := extractJSON(response)

	var reply oracleReply
	if err := json.Unmarshal([]byte(jsonStr), &reply); err != nil {
		return domain.Verdict{}, fmt.Errorf("malformed verdict (reply length: %d chars): %w", len(response), err)
	}

	if err := j.validate.Struct(reply); err != nil {
		return domain.Verdict{}, fmt.Errorf("verdict failed schema validation: %w", err)
	}

	return domain.Verdict{
		TotalScore:   *reply.TotalScore,
		Scores:       *reply.Scores,
		Comment:      reply.Comment,
		Strengths:    reply.Strengths,
		Improvements: reply.Improvements,
	}, nil
}

// extractJSON pulls the verdict text out of a reply that may wrap it
// in markdown fences. A block fenced as json wins, even when the reply
// was truncated before the closing fence; a generic fenced block is
// accepted when its contents look like an object; otherwise the raw
// reply is parsed as-is.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.Contains(response, "```json") {
		start := strings.Index(response, "```json") + len("```json")
		if end := strings.Index(response[start:], "```"); end != -1 {
			return strings.TrimSpace(response[start : start+end])
		}
		return strings.TrimSpace(response[start:])
	}

	if strings.HasPrefix(response, "```") {
		start := len("```")
		// Skip a language identifier on the fence line, if any.
		if nl := strings.Index(response[start:], "\n"); nl != -1 {
			start += nl + 1
		}
		if end := strings.Index(response[start:], "```"); end != -1 {
			candidate := strings.TrimSpace(response[start : start+end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	return response
}
