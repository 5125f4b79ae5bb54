package dataset

import (
	"fmt"
	"io"
)

const rule = "============================================================"

// WriteReport prints the structural diagnostics in the checker's
// plain-text format: file summary, layout of the first sample, the
// conformance checks, and length statistics.
func WriteReport(w io.Writer, path string, samples []Sample, d Diagnostics) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Dataset structure check")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\nFile: %s\n", path)
	fmt.Fprintf(w, "Samples: %d\n", d.SampleCount)
	fmt.Fprintf(w, "Mean messages per sample: %.1f\n", d.MeanMessages)

	if len(samples) > 0 {
		first := samples[0]
		fmt.Fprintf(w, "\nFirst sample (%d messages):\n", len(first.Messages))
		fmt.Fprintf(w, "  reasoning_language: %s\n", first.ReasoningLanguage)
		for i, msg := range first.Messages {
			fmt.Fprintf(w, "  [%d] role=%s content=%s", i, msg.Role, preview(msg.Content))
			if msg.Thinking != nil {
				fmt.Fprintf(w, " thinking=%s", preview(*msg.Thinking))
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "\nConformance:\n")
	for _, c := range d.Checks {
		mark := "ok"
		if !c.OK {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "  [%s] %s\n", mark, c.Name)
	}

	writeLengthStats(w, "analysis", d.Analysis)
	writeLengthStats(w, "final", d.Final)

	fmt.Fprintf(w, "\n%s\n", rule)
	if d.Conforms() {
		fmt.Fprintln(w, "Dataset matches the expected fine-tuning schema.")
	} else {
		fmt.Fprintln(w, "Dataset does NOT match the expected fine-tuning schema.")
	}
	fmt.Fprintln(w, rule)
}

func writeLengthStats(w io.Writer, field string, s LengthStats) {
	fmt.Fprintf(w, "\n%s length (%d samples):\n", field, s.Count)
	if s.Count == 0 {
		fmt.Fprintln(w, "  (no values)")
		return
	}
	fmt.Fprintf(w, "  mean: %.0f chars\n", s.Mean)
	fmt.Fprintf(w, "  min:  %d chars\n", s.Min)
	fmt.Fprintf(w, "  max:  %d chars\n", s.Max)
}

// preview truncates long text for the structure dump.
func preview(s string) string {
	const limit = 60
	runes := []rune(s)
	if len(runes) <= limit {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%q...", string(runes[:limit]))
}
