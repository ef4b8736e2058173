package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedExtension is returned when no extractor handles a file extension.
	ErrUnsupportedExtension = errors.New("unsupported file type")

	// ErrNothingToSummarize is returned when a document yields no chunks.
	ErrNothingToSummarize = errors.New("no text to summarize")
)

// UnreadableError reports that text could not be extracted from a file.
// It is a property of the file and is never retried.
type UnreadableError struct {
	Path   string
	Reason string
	Err    error
}

// Unreadable builds an UnreadableError for path.
func Unreadable(path, reason string, err error) *UnreadableError {
	return &UnreadableError{
		Path:   path,
		Reason: reason,
		Err:    err,
	}
}

func (e *UnreadableError) Error() string {
	var b strings.Builder
	b.WriteString("unreadable")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *UnreadableError) Unwrap() error {
	return e.Err
}

// ServiceError reports a failure of the remote completion service.
type ServiceError struct {
	Op  string
	Err error
}

// NewServiceError wraps err as a ServiceError unless it already is one.
func NewServiceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}
	return &ServiceError{Op: op, Err: err}
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("summarization service (%s): %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsUnreadable reports whether err is or wraps an UnreadableError.
func IsUnreadable(err error) bool {
	var target *UnreadableError
	return errors.As(err, &target)
}

// IsServiceError reports whether err is or wraps a ServiceError.
func IsServiceError(err error) bool {
	var target *ServiceError
	return errors.As(err, &target)
}
