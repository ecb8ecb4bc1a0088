package form

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"gtodo/internal/textcase"
)

// Part identifies which piece of a field an input edits.
type Part int

const (
	PartValue Part = iota
	PartDate
	PartTime
)

// Input is one editable control of a form, in display order.
type Input struct {
	// Key addresses the input in Set, Raw and Errors.
	Key   string
	Field string
	Part  Part
	Label string
	// Placeholder describes the expected format.
	Placeholder string
	// MaxLength is the character limit for text inputs, 0 otherwise.
	MaxLength int
}

// Spec declares the fields of a form. A nil Initial builds a create form.
type Spec struct {
	Fields   []string
	Initial  Values
	Location *time.Location
}

type field struct {
	name string
	kind Kind

	text       string
	date       string
	clock      string
	composite  time.Time
	hasCompose bool
}

// Form is a validated set of inputs built from a Spec.
type Form struct {
	loc     *time.Location
	edit    bool
	fields  []*field
	byName  map[string]*field
	inputs  []Input
	initial map[string]string
}

// New builds a form. Unknown field names are rejected with ErrUnknownField.
func New(spec Spec) (*Form, error) {
	loc := spec.Location
	if loc == nil {
		loc = time.Local
	}

	f := &Form{
		loc:    loc,
		edit:   spec.Initial != nil,
		byName: make(map[string]*field, len(spec.Fields)),
	}

	for _, name := range spec.Fields {
		kind, ok := KindOf(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		if _, dup := f.byName[name]; dup {
			continue
		}

		fld := &field{name: name, kind: kind}
		if v, ok := spec.Initial[name]; ok {
			switch kind {
			case KindDateTime:
				if !v.Time.IsZero() {
					local := v.Time.In(loc)
					fld.date = local.Format(DateLayout)
					fld.clock = local.Format(TimeLayout)
				}
			default:
				fld.text = v.Text
			}
		}

		f.fields = append(f.fields, fld)
		f.byName[name] = fld
		f.inputs = append(f.inputs, inputsFor(fld)...)
		if kind == KindDateTime {
			f.recompute(fld)
		}
	}

	f.initial = f.snapshot()
	return f, nil
}

// MustNew is like New but panics on an unknown field name.
func MustNew(spec Spec) *Form {
	f, err := New(spec)
	if err != nil {
		panic(err)
	}
	return f
}

func inputsFor(fld *field) []Input {
	label := textcase.CamelToTitle(fld.name)
	switch fld.kind {
	case KindShortText:
		return []Input{{Key: fld.name, Field: fld.name, Part: PartValue, Label: label, MaxLength: MaxShortTextLength}}
	case KindLongText:
		return []Input{{Key: fld.name, Field: fld.name, Part: PartValue, Label: label, MaxLength: MaxLongTextLength}}
	default:
		return []Input{
			{Key: fld.name + ".date", Field: fld.name, Part: PartDate, Label: label + " (date)", Placeholder: "YYYY-MM-DD"},
			{Key: fld.name + ".time", Field: fld.name, Part: PartTime, Label: label + " (time)", Placeholder: "HH:MM"},
		}
	}
}

// Inputs returns the form's inputs in display order.
func (f *Form) Inputs() []Input {
	out := make([]Input, len(f.inputs))
	copy(out, f.inputs)
	return out
}

// IsEdit reports whether the form was built with initial values.
func (f *Form) IsEdit() bool { return f.edit }

func (f *Form) lookup(key string) (*field, Part, bool) {
	name, part := key, PartValue
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		name = key[:i]
		switch key[i+1:] {
		case "date":
			part = PartDate
		case "time":
			part = PartTime
		default:
			return nil, 0, false
		}
	}
	fld, ok := f.byName[name]
	if !ok {
		return nil, 0, false
	}
	if (fld.kind == KindDateTime) != (part != PartValue) {
		return nil, 0, false
	}
	return fld, part, true
}

// Set assigns the raw value of an input. Changing a date or time input
// recomputes the composite timestamp of its field.
func (f *Form) Set(key, raw string) error {
	fld, part, ok := f.lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownInput, key)
	}
	switch part {
	case PartDate:
		fld.date = raw
		f.recompute(fld)
	case PartTime:
		fld.clock = raw
		f.recompute(fld)
	default:
		fld.text = raw
	}
	return nil
}

// Raw returns the current raw value of an input.
func (f *Form) Raw(key string) string {
	fld, part, ok := f.lookup(key)
	if !ok {
		return ""
	}
	switch part {
	case PartDate:
		return fld.date
	case PartTime:
		return fld.clock
	default:
		return fld.text
	}
}

// Composite returns the derived timestamp of a date-time field. The second
// result is false while either sub-input is missing or invalid.
func (f *Form) Composite(name string) (time.Time, bool) {
	fld, ok := f.byName[name]
	if !ok || fld.kind != KindDateTime || !fld.hasCompose {
		return time.Time{}, false
	}
	return fld.composite, true
}

func (f *Form) recompute(fld *field) {
	fld.composite, fld.hasCompose = time.Time{}, false

	if dateError(fld.date) != nil || timeError(fld.clock) != nil {
		return
	}
	day, _ := time.ParseInLocation(DateLayout, strings.TrimSpace(fld.date), f.loc)
	clock, _ := time.Parse(TimeLayout, fld.clock)

	fld.composite = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, f.loc)
	fld.hasCompose = true
}

func dateError(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrRequired
	}
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func timeError(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrRequired
	}
	if !timePattern.MatchString(raw) {
		return ErrInvalidTime
	}
	return nil
}

func textError(kind Kind, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrRequired
	}
	n := utf8.RuneCountInString(raw)
	if n < MinTextLength {
		return ErrTooShort
	}
	limit := MaxLongTextLength
	if kind == KindShortText {
		limit = MaxShortTextLength
	}
	if n > limit {
		return ErrTooLong
	}
	return nil
}

// Errors returns the validation errors keyed by input key. A date-time field
// without a composite value is also reported under the field name.
func (f *Form) Errors() map[string]error {
	errs := make(map[string]error)
	for _, fld := range f.fields {
		label := textcase.CamelToTitle(fld.name)
		switch fld.kind {
		case KindDateTime:
			if err := dateError(fld.date); err != nil {
				errs[fld.name+".date"] = fmt.Errorf("%s date %w", label, err)
			}
			if err := timeError(fld.clock); err != nil {
				errs[fld.name+".time"] = fmt.Errorf("%s time %w", label, err)
			}
			if !fld.hasCompose {
				errs[fld.name] = fmt.Errorf("%s %w", label, ErrRequired)
			}
		default:
			if err := textError(fld.kind, fld.text); err != nil {
				errs[fld.name] = fmt.Errorf("%s %w", label, err)
			}
		}
	}
	return errs
}

// Valid reports whether every input passes validation.
func (f *Form) Valid() bool {
	return len(f.Errors()) == 0
}

func (f *Form) snapshot() map[string]string {
	snap := make(map[string]string, len(f.inputs))
	for _, in := range f.inputs {
		snap[in.Key] = f.Raw(in.Key)
	}
	return snap
}

// Dirty reports whether any input differs from the values the form was built with.
func (f *Form) Dirty() bool {
	return !reflect.DeepEqual(f.initial, f.snapshot())
}

// CanConfirm reports whether Confirm would succeed. Edit forms also require a change.
func (f *Form) CanConfirm() bool {
	if !f.Valid() {
		return false
	}
	return !f.edit || f.Dirty()
}

// Confirm emits the semantic field values. Date and time sub-inputs are folded
// into their composite timestamp and never emitted on their own.
func (f *Form) Confirm() (Values, error) {
	if !f.CanConfirm() {
		return nil, ErrNotConfirmable
	}
	out := make(Values, len(f.fields))
	for _, fld := range f.fields {
		if fld.kind == KindDateTime {
			out[fld.name] = TimeValue(fld.composite)
			continue
		}
		out[fld.name] = TextValue(fld.kind, fld.text)
	}
	return out, nil
}
