// Command check_dataset loads a fine-tuning dataset file and prints
// structural diagnostics confirming it matches the chat schema the
// training notebook expects. It is a standalone sanity check, separate
// from the evaluation pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/he-be/mansion-poem/internal/dataset"
)

func main() {
	path := flag.String("data", "datasets/mansion_poem_ft.jsonl", "Path to the fine-tuning JSONL file")
	flag.Parse()

	samples, err := dataset.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(samples) == 0 {
		fmt.Fprintf(os.Stderr, "error: %s contains no samples\n", *path)
		os.Exit(1)
	}

	diags := dataset.Inspect(samples)
	dataset.WriteReport(os.Stdout, *path, samples, diags)

	if !diags.Conforms() {
		os.Exit(1)
	}
}
