package config

import (
	"fmt"
	"strings"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// HasField reports whether any issue names field.
func (err *ValidationError) HasField(field string) bool {
	if err == nil {
		return false
	}
	for _, issue := range err.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// issueList collects issues while a config is walked.
type issueList []Issue

func (l *issueList) add(field, message string) {
	*l = append(*l, Issue{Field: field, Message: message})
}

func (l *issueList) addf(field, format string, args ...interface{}) {
	l.add(field, fmt.Sprintf(format, args...))
}

func (l issueList) err() error {
	if len(l) == 0 {
		return nil
	}
	return &ValidationError{Issues: l}
}
