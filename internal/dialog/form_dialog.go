package dialog

import (
	"time"

	"gtodo/internal/form"
)

// FormDialog is a dialog whose payload is the values emitted by a form.
type FormDialog struct {
	*Dialog[form.Values]
	Form *form.Form
}

// OpenForm builds the form for spec and opens a dialog around it. Item values,
// when present, are extracted with values and make it an edit dialog.
func OpenForm[T any](spec Spec[T], values func(T) form.Values, loc *time.Location) (*FormDialog, error) {
	fs := form.Spec{Fields: spec.Controls, Location: loc}
	if spec.Item != nil {
		fs.Initial = values(*spec.Item)
	}
	f, err := form.New(fs)
	if err != nil {
		return nil, err
	}
	return &FormDialog{Dialog: Open[form.Values](spec.Title), Form: f}, nil
}

// Confirm resolves the dialog with the form's values. It fails with
// form.ErrNotConfirmable while the form is invalid or, for edits, unchanged.
func (d *FormDialog) Confirm() error {
	if d.State() != StateOpen {
		return ErrClosed
	}
	vals, err := d.Form.Confirm()
	if err != nil {
		return err
	}
	return d.Resolve(vals)
}
