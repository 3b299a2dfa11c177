package dataset

import (
	"fmt"
)

// FieldMissingError indicates a requested passthrough attribute is absent
// from the source row.
type FieldMissingError struct {
	Field string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("field %q does not exist in the source collection", e.Field)
}
