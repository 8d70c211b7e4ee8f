// Package models declares the schema of every table and the errors the
// repositories and services report.
package models

import (
	"errors"
	"fmt"
)

// Table names.
const (
	TableUsers    = "USERS"
	TableClients  = "CLIENTS"
	TableProjects = "PROJECTS"
	TableTasks    = "TASKS"
	TableFAQs     = "FAQS"
	TableFiles    = "FILES"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalid            = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrClientNotFound  = fmt.Errorf("client %w", ErrNotFound)
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
	ErrTaskNotFound    = fmt.Errorf("task %w", ErrNotFound)
	ErrFAQNotFound     = fmt.Errorf("faq %w", ErrNotFound)
	ErrFileNotFound    = fmt.Errorf("file %w", ErrNotFound)

	ErrEmailTaken = fmt.Errorf("%w: a user with this email already exists", ErrConflict)
)

// Invalid wraps ErrInvalid with a message meant for the caller.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalid, msg)
}
