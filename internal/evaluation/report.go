package evaluation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ReportMeta carries run-level information for the report header.
type ReportMeta struct {
	// GeneratedAt is the report generation time.
	GeneratedAt time.Time

	// EvaluatorModel identifies the oracle model that produced the
	// verdicts.
	EvaluatorModel string

	// RunID tags the run the report came from, for correlation with
	// logs.
	RunID string
}

// RenderReport turns aggregated model statistics into a Markdown
// document. It is a pure function: rendering the same stats and meta
// twice yields identical text. Writing the document to disk is the
// caller's job.
//
// Models appear in lexicographic order throughout, regardless of the
// order records were processed in.
func RenderReport(stats map[string]ModelStats, meta ReportMeta) string {
	models := make([]string, 0, len(stats))
	for model := range stats {
		models = append(models, model)
	}
	sort.Strings(models)

	var b strings.Builder

	b.WriteString("# LLM Generation Quality Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Evaluator model: `%s`\n", meta.EvaluatorModel)
	if meta.RunID != "" {
		fmt.Fprintf(&b, "Run ID: `%s`\n", meta.RunID)
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("| Model | Evaluated | Mean score | Std dev | Max | Min | Mean generation time |\n")
	b.WriteString("|-------|-----------|------------|---------|-----|-----|----------------------|\n")
	for _, model := range models {
		s := stats[model]
		fmt.Fprintf(&b, "| %s | %d | %.1f | %.1f | %d | %d | %.0fms |\n",
			s.Model, s.Count, s.MeanScore, s.StdDev, s.MaxScore, s.MinScore, s.MeanGenerationMs)
	}
	b.WriteString("\n---\n\n")

	for _, model := range models {
		renderModelSection(&b, stats[model])
	}

	return b.String()
}

func renderModelSection(b *strings.Builder, s ModelStats) {
	fmt.Fprintf(b, "## %s\n\n", s.Model)

	b.WriteString("### Criterion averages\n\n")
	b.WriteString("| Criterion | Weight | Mean | Achievement |\n")
	b.WriteString("|-----------|--------|------|-------------|\n")
	for _, c := range criteria {
		mean := s.CriterionMeans[c.Key]
		achievement := mean / float64(c.Weight) * 100
		fmt.Fprintf(b, "| %s | %d | %.1f | %.0f%% |\n", c.Name, c.Weight, mean, achievement)
	}
	b.WriteString("\n")

	best := s.Best
	fmt.Fprintf(b, "### Best (score: %d/100)\n\n", best.Verdict.TotalScore)
	fmt.Fprintf(b, "**Title**: %s\n\n", best.Record.Poem.Title)
	b.WriteString("**Body**:\n```\n")
	b.WriteString(best.Record.Poem.Poem)
	b.WriteString("\n```\n\n")
	fmt.Fprintf(b, "**Comment**: %s\n", best.Verdict.Comment)
	fmt.Fprintf(b, "**Strengths**: %s\n\n", best.Verdict.Strengths)

	if s.Worst != nil {
		worst := *s.Worst
		fmt.Fprintf(b, "### Worst (score: %d/100)\n\n", worst.Verdict.TotalScore)
		fmt.Fprintf(b, "**Title**: %s\n\n", worst.Record.Poem.Title)
		b.WriteString("**Body**:\n```\n")
		b.WriteString(worst.Record.Poem.Poem)
		b.WriteString("\n```\n\n")
		fmt.Fprintf(b, "**Comment**: %s\n", worst.Verdict.Comment)
		fmt.Fprintf(b, "**Improvements**: %s\n\n", worst.Verdict.Improvements)
	}

	b.WriteString("---\n\n")
}
