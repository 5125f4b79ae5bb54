// Package dataset loads the fine-tuning dataset and checks that it
// matches the Harmony-style chat schema the training notebook expects:
// one JSON object per line with top-level reasoning_language,
// developer, user, analysis and final fields, and a messages array of
// system, user and assistant turns where the assistant turn carries
// both content (the final output) and thinking (the analysis).
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"
)

// Message is one chat turn of a training sample.
type Message struct {
	Role     string  `json:"role"`
	Content  string  `json:"content"`
	Thinking *string `json:"thinking"`
}

// Sample is one line of the fine-tuning JSONL file.
type Sample struct {
	ReasoningLanguage string    `json:"reasoning_language"`
	Developer         string    `json:"developer"`
	User              string    `json:"user"`
	Analysis          string    `json:"analysis"`
	Final             string    `json:"final"`
	Messages          []Message `json:"messages"`
}

// maxLineBytes accommodates samples with long chain-of-thought text;
// the default Scanner buffer is far too small for them.
const maxLineBytes = 4 << 20

// Load reads the dataset file, one JSON sample per non-blank line.
// A malformed line fails the whole load with its line number: a
// training file with even one bad row needs fixing, not skipping.
func Load(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var samples []Sample
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var s Sample
		if err := json.Unmarshal(line, &s); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	return samples, nil
}

// runeLen measures text the way the generation length budget does:
// in code points, not bytes.
func runeLen(s string) int { return utf8.RuneCountInString(s) }
