package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/offscrape/crewcheck/internal/model"
)

// Load error taxonomy.
// These are wrapped into returned errors so callers can use errors.Is()
// for programmatic handling while still seeing file-specific detail.
var (
	// ErrDatasetNotFound is returned when the input path does not exist.
	ErrDatasetNotFound = errors.New("dataset file not found")

	// ErrParse is returned when the input file is not valid JSON.
	ErrParse = errors.New("dataset is not valid JSON")

	// ErrSchema is returned when the document lacks the top-level
	// results key or a record has the wrong shape.
	ErrSchema = errors.New("dataset does not match the expected schema")
)

// Load reads and parses the results file at path.
// There is no partial-success mode: any failure aborts with an error
// from the taxonomy above.
func Load(path string) (*model.Dataset, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided dataset path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	// Decode into a raw envelope first so a missing results key can be
	// distinguished from malformed JSON. A well-formed document whose
	// top-level value is not an object (an array, a string) is a schema
	// problem, not a parse problem.
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %s: top-level value is %s, expected an object", ErrSchema, path, typeErr.Value)
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrParse, path, err)
	}

	raw, ok := envelope["results"]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing top-level \"results\" key", ErrSchema, path)
	}

	var results []model.GameResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrSchema, path, err)
	}

	return &model.Dataset{Results: results}, nil
}
