package dividend

import (
	"errors"
	"fmt"
	"strings"
)

// MissingColumnsError reports required columns absent from the input schema.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// IsMissingColumns reports whether err is, or wraps, a *MissingColumnsError.
func IsMissingColumns(err error) bool {
	var mc *MissingColumnsError
	return errors.As(err, &mc)
}

// checkColumns returns a *MissingColumnsError naming every required column
// absent from the table schema.
func checkColumns(t Table) error {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing}
	}
	return nil
}
