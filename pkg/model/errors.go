package model

import (
	"errors"
	"fmt"
)

// ErrEmptyRecord is returned by Insert, Update and Remove when the record
// (or the where-record) is empty once converted to storage form.
var ErrEmptyRecord = errors.New("model: empty record")

// OperationError wraps a failure reported by the database.
type OperationError struct {
	Op    string
	Table string
	Err   error
}

func (e *OperationError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("model: %s %s: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("model: %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
