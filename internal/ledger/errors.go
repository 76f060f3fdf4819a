package ledger

import (
	"fmt"
	"strings"
)

// SchemaError rejects a whole batch when required columns are absent.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

// checkSchema compares a sample row's headers against the required set.
// An empty batch cannot prove its schema, so it passes.
func checkSchema(source string, rows []Row, required []string) error {
	if len(rows) == 0 {
		return nil
	}
	sample := rows[0]
	var missing []string
	for _, col := range required {
		if _, ok := sample[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Source: source, Missing: missing}
	}
	return nil
}
