package anglify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTable is the cause of a DictionaryError for a required table
// that has no entries.
var ErrEmptyTable = errors.New("empty table")

// DictionaryError reports dictionary data that could not be loaded or used.
type DictionaryError struct {
	Source  string // file, directory or table name
	Message string
	Cause   error
}

func (e *DictionaryError) Error() string {
	return describe("dictionary", e.Source, e.Message, e.Cause)
}

func (e *DictionaryError) Unwrap() error { return e.Cause }

// CacheError reports a cache backend failure. Retryable is set when the
// backend may still come up, such as a refused Redis connection.
type CacheError struct {
	Message   string
	Cause     error
	Retryable bool
}

func (e *CacheError) Error() string {
	return describe("cache", "", e.Message, e.Cause)
}

func (e *CacheError) Unwrap() error { return e.Cause }

// ProcessorError reports a document that could not be parsed or rendered.
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string
}

func (e *ProcessorError) Error() string {
	return describe("processor", e.ContentType, e.Message, e.Cause)
}

func (e *ProcessorError) Unwrap() error { return e.Cause }

// describe renders "<kind> error (<where>): <msg>: <cause>", leaving out
// the parts that are empty.
func describe(kind, where, msg string, cause error) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteString(" error")
	if where != "" {
		fmt.Fprintf(&b, " (%s)", where)
	}
	if msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	return b.String()
}
