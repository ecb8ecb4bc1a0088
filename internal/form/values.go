package form

import (
	"time"

	"gtodo/internal/service"
)

// Value holds one semantic field value. Text kinds use Text, KindDateTime uses Time.
type Value struct {
	Kind Kind
	Text string
	Time time.Time
}

// TextValue returns a text value of the given kind.
func TextValue(k Kind, s string) Value {
	return Value{Kind: k, Text: s}
}

// TimeValue returns a date-time value.
func TimeValue(t time.Time) Value {
	return Value{Kind: KindDateTime, Time: t}
}

// Values maps field names to values. A missing key means the field was not emitted.
type Values map[string]Value

// Text returns the text of a field.
func (v Values) Text(field string) (string, bool) {
	val, ok := v[field]
	if !ok || val.Kind == KindDateTime {
		return "", false
	}
	return val.Text, true
}

// Time returns the timestamp of a date-time field.
func (v Values) Time(field string) (time.Time, bool) {
	val, ok := v[field]
	if !ok || val.Kind != KindDateTime {
		return time.Time{}, false
	}
	return val.Time, true
}

// TodoValues returns the form values of an existing todo.
func TodoValues(t service.Todo) Values {
	return Values{
		FieldTitle:        TextValue(KindShortText, t.Title),
		FieldText:         TextValue(KindLongText, t.Text),
		FieldDeadlineDate: TimeValue(t.DeadlineDate),
	}
}

// ListValues returns the form values of an existing list.
func ListValues(l service.TodoList) Values {
	return Values{
		FieldTitle: TextValue(KindShortText, l.Title),
	}
}

// ApplyTodo merges the present values into t. Absent fields are left untouched.
func (v Values) ApplyTodo(t *service.Todo) {
	if s, ok := v.Text(FieldTitle); ok {
		t.Title = s
	}
	if s, ok := v.Text(FieldText); ok {
		t.Text = s
	}
	if ts, ok := v.Time(FieldDeadlineDate); ok {
		t.DeadlineDate = ts
	}
}

// ApplyList merges the present values into l.
func (v Values) ApplyList(l *service.TodoList) {
	if s, ok := v.Text(FieldTitle); ok {
		l.Title = s
	}
}
