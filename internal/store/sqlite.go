// Package store reads generation records from the dev server's SQLite
// log database. The store is strictly read-only for the evaluation
// pipeline; records are created elsewhere and never mutated here.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/he-be/mansion-poem/internal/domain"
)

// ErrStoreUnavailable indicates that the log database could not be
// opened. This is fatal for a run: the pipeline must not proceed with
// partial data.
var ErrStoreUnavailable = errors.New("record store unavailable")

// eligibleQuery selects every successful generation attempt, newest
// first. Failed attempts carry no poem worth scoring.
const eligibleQuery = `
	SELECT
		id, created_at, selected_cards, generated_poem,
		generation_time_ms, is_successful,
		llm_provider, llm_model, prompt_text
	FROM generation_logs
	WHERE is_successful = 1
	ORDER BY created_at DESC`

// RecordStore provides read access to the generation_logs table.
type RecordStore struct {
	db *sql.DB
}

// Open opens the SQLite database at path. A missing file is reported
// as ErrStoreUnavailable rather than letting the driver create an
// empty database in its place.
func Open(path string) (*RecordStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStoreUnavailable, path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrStoreUnavailable, path, err)
	}

	return &RecordStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *RecordStore) Close() error { return s.db.Close() }

// LoadEligibleRecords returns every successful generation record,
// newest first. The JSON card and poem columns are decoded and
// validated here at the boundary so downstream code only ever sees
// typed records. An empty result is not an error.
func (s *RecordStore) LoadEligibleRecords(ctx context.Context) ([]domain.GenerationRecord, error) {
	rows, err := s.db.QueryContext(ctx, eligibleQuery)
	if err != nil {
		return nil, fmt.Errorf("query generation logs: %w", err)
	}
	defer rows.Close()

	var records []domain.GenerationRecord
	for rows.Next() {
		var (
			rec          domain.GenerationRecord
			cardsJSON    string
			poemJSON     string
			isSuccessful int
		)
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &cardsJSON, &poemJSON,
			&rec.GenerationTimeMs, &isSuccessful,
			&rec.LLMProvider, &rec.LLMModel, &rec.PromptText,
		); err != nil {
			return nil, fmt.Errorf("scan generation log row: %w", err)
		}
		rec.IsSuccessful = isSuccessful != 0

		if err := json.Unmarshal([]byte(cardsJSON), &rec.SelectedCards); err != nil {
			return nil, fmt.Errorf("record %s: decode selected_cards: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(poemJSON), &rec.Poem); err != nil {
			return nil, fmt.Errorf("record %s: decode generated_poem: %w", rec.ID, err)
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation logs: %w", err)
	}

	return records, nil
}
