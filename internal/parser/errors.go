package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported indicates a file format with no registered reader.
	ErrUnsupported = errors.New("unsupported dataset format")
	// ErrEmptyData matches any *EmptyDataError via errors.Is.
	ErrEmptyData = errors.New("no columns found")
)

// ParseError reports input that is not well-formed delimited text.
type ParseError struct {
	Line int // 1-based; 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyDataError indicates the header row is missing or has no fields.
type EmptyDataError struct {
	Source string
}

func (e *EmptyDataError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s", e.Source, ErrEmptyData.Error())
	}
	return ErrEmptyData.Error()
}

func (e *EmptyDataError) Is(target error) bool { return target == ErrEmptyData }
