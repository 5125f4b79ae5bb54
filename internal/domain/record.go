// Package domain defines the core types shared by the evaluation
// pipeline: generation records read from the log store, the verdicts
// produced by the scoring oracle, and the errors that cross package
// boundaries.
package domain

// ConditionCard is the negative sales condition a generation had to
// conceal, e.g. "north facing" or "10 minutes to the station by bus".
type ConditionCard struct {
	// Category groups the condition, e.g. "location" or "layout".
	Category string `json:"category"`

	// ConditionText is the literal condition shown to the generator.
	ConditionText string `json:"condition_text"`
}

// PoemCard is the stock poem fragment paired with a condition.
type PoemCard struct {
	// PoemText is the fragment's body.
	PoemText string `json:"poem_text"`
}

// SelectedCard is one condition/poem pairing that went into a
// generation. The JSON layout mirrors the selected_cards column of the
// generation_logs table, which stores the frontend's card objects
// verbatim. Every field may be absent at the source; renderers
// substitute a placeholder for missing values.
type SelectedCard struct {
	ConditionCard ConditionCard `json:"conditionCard"`
	SelectedPoem  PoemCard      `json:"selectedPoem"`
}

// GeneratedPoem is the model output under evaluation.
type GeneratedPoem struct {
	Title string `json:"title"`

	// Poem is the body text. Its rune count is a scoring input and is
	// always recomputed by the prompt builder, never trusted from an
	// upstream field.
	Poem string `json:"poem"`
}

// GenerationRecord is one stored generation attempt. Records are
// created by the dev server's generation endpoint and are read-only
// for this pipeline.
type GenerationRecord struct {
	// ID uniquely identifies the record. It is treated as opaque text
	// even though the store uses an integer primary key.
	ID string

	// CreatedAt is the creation timestamp as stored, used only for
	// ordering (the store query sorts newest first).
	CreatedAt string

	// SelectedCards are the condition/poem pairings the generation was
	// built from.
	SelectedCards []SelectedCard

	// Poem is the generated output under evaluation.
	Poem GeneratedPoem

	// GenerationTimeMs is the generation latency in milliseconds.
	GenerationTimeMs int64

	// IsSuccessful marks the attempt as usable. Only successful records
	// are eligible for scoring.
	IsSuccessful bool

	// LLMProvider names the provider that served the generation.
	LLMProvider string

	// LLMModel is the model identifier. Aggregation groups by this
	// field alone; two providers serving an identically named model are
	// folded together.
	LLMModel string

	// PromptText is the raw prompt sent to the generator.
	PromptText string
}
