// Package form builds validated edit forms from a declarative list of field names.
//
// Each field name resolves to one of a closed set of kinds through a fixed table.
// Text kinds map to a single input. The date+time kind maps to a date input and a
// time input that together derive one timestamp.
package form

import (
	"errors"
	"regexp"
)

// Kind is the control kind of a form field.
type Kind int

const (
	// KindShortText is a short required string (titles).
	KindShortText Kind = iota + 1
	// KindLongText is a longer required string (descriptions).
	KindLongText
	// KindDateTime is a composite of a date input and a time input.
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindShortText:
		return "short-text"
	case KindLongText:
		return "long-text"
	case KindDateTime:
		return "date-time"
	default:
		return "unknown"
	}
}

// Field names understood by the builder.
const (
	FieldTitle        = "title"
	FieldText         = "text"
	FieldDeadlineDate = "deadlineDate"
)

var fieldKinds = map[string]Kind{
	FieldTitle:        KindShortText,
	FieldText:         KindLongText,
	FieldDeadlineDate: KindDateTime,
}

// KindOf resolves a field name to its kind.
func KindOf(field string) (Kind, bool) {
	k, ok := fieldKinds[field]
	return k, ok
}

// Length bounds for text kinds.
const (
	MinTextLength      = 3
	MaxShortTextLength = 20
	MaxLongTextLength  = 250
)

// Layouts of the date and time sub-inputs.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

var (
	// ErrUnknownField is returned when a spec names a field with no kind.
	ErrUnknownField = errors.New("unknown form field")

	// ErrUnknownInput is returned when setting an input the form does not have.
	ErrUnknownInput = errors.New("unknown form input")

	// ErrNotConfirmable is returned by Confirm when the form is invalid or unchanged.
	ErrNotConfirmable = errors.New("form cannot be confirmed")

	ErrRequired    = errors.New("is required")
	ErrTooShort    = errors.New("is too short")
	ErrTooLong     = errors.New("is too long")
	ErrInvalidDate = errors.New("must be a date (YYYY-MM-DD)")
	ErrInvalidTime = errors.New("must be a 24-hour time (HH:MM)")
)
