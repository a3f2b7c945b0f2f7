package controller

import (
	"context"
	"errors"

	"github.com/mechashelf/admin/internal/catalog"
	"github.com/mechashelf/admin/internal/domain"
	"github.com/mechashelf/admin/internal/notify"
	"github.com/mechashelf/admin/internal/validation"
)

// Submission messages shown when a create or edit round trip fails without a
// field-keyed body.
const (
	msgSubmitRejected = "Could not submit the data. Please check and try again."
	msgSubmitFault    = "A system error occurred. Please try again later."
)

// SubmitResult is the outcome of one form submission.
//
// FieldErrors carries client-side validation failures keyed by field; the
// submission never reached the network when it is non-empty. FormError carries
// a backend rejection flattened to a single message. Record is the saved
// record on success.
type SubmitResult struct {
	Record      domain.Record
	FieldErrors map[string]string
	FormError   string
}

// OK reports whether the submission succeeded.
func (r SubmitResult) OK() bool {
	return len(r.FieldErrors) == 0 && r.FormError == ""
}

// FormController drives one entity's create and edit forms: client-side
// validation first, then the backend call, then notification and callbacks.
// The caller keeps the submitted values on failure so drafts are never lost.
type FormController struct {
	api      EntityAPI
	desc     domain.EntityDescriptor
	notifier notify.Notifier

	// OnCreated and OnUpdated run after a successful submission, before the
	// result is returned. The list screen hooks its reload in here.
	OnCreated func()
	OnUpdated func()
}

// NewFormController binds a form to an entity's API. A nil notifier is
// replaced with a no-op.
func NewFormController(api EntityAPI, desc domain.EntityDescriptor, notifier notify.Notifier) *FormController {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &FormController{api: api, desc: desc, notifier: notifier}
}

// Rules derives the client-side validation rule set from the entity's field
// configuration: required fields and text length limits. File fields are never
// validated here; the backend owns image validation.
func (f *FormController) Rules() map[string][]validation.Rule {
	rules := make(map[string][]validation.Rule)
	for _, field := range f.desc.Fields {
		if field.Kind == domain.FieldFile {
			continue
		}
		var rs []validation.Rule
		if field.Required {
			rs = append(rs, validation.Required(field.Label))
		}
		if field.MaxLength > 0 {
			rs = append(rs, validation.MaxLength(field.MaxLength, field.Label))
		}
		if len(rs) > 0 {
			rules[field.Key] = rs
		}
	}
	return rules
}

// Create validates the values and, when clean, posts them as a new record.
// Empty optional fields are omitted from the request so the backend applies
// its own defaults.
func (f *FormController) Create(ctx context.Context, values map[string]string, file *catalog.FileUpload) SubmitResult {
	if fieldErrs := validation.ValidateForm(values, f.Rules()); len(fieldErrs) > 0 {
		return SubmitResult{FieldErrors: fieldErrs}
	}

	record, err := f.api.Create(ctx, prunedValues(values), file)
	if err != nil {
		return f.failure(err)
	}

	f.notifier.Notify("Success!", notify.Success)
	if f.OnCreated != nil {
		f.OnCreated()
	}
	return SubmitResult{Record: record}
}

// Prefill fetches the record an edit form starts from.
func (f *FormController) Prefill(ctx context.Context, id string) (domain.Record, error) {
	record, err := f.api.Fetch(ctx, id)
	if err != nil {
		f.notifier.Notify("Failed to load data: "+failureMessage(err), notify.Error)
		return nil, err
	}
	return record, nil
}

// Update validates the values and patches the record with only the fields
// whose value differs from the original. A file, when present, is always
// included; there is no original to diff it against.
func (f *FormController) Update(ctx context.Context, id string, original domain.Record, values map[string]string, file *catalog.FileUpload) SubmitResult {
	if fieldErrs := validation.ValidateForm(values, f.Rules()); len(fieldErrs) > 0 {
		return SubmitResult{FieldErrors: fieldErrs}
	}

	changed := changedValues(original, prunedValues(values))
	if len(changed) == 0 && file == nil {
		// Nothing to save; treat as a successful no-op.
		f.notifier.Notify("Success!", notify.Success)
		if f.OnUpdated != nil {
			f.OnUpdated()
		}
		return SubmitResult{Record: original}
	}

	record, err := f.api.Update(ctx, id, changed, file)
	if err != nil {
		return f.failure(err)
	}

	f.notifier.Notify("Success!", notify.Success)
	if f.OnUpdated != nil {
		f.OnUpdated()
	}
	return SubmitResult{Record: record}
}

// failure translates a backend rejection into the form-level message and
// publishes it. Field-keyed bodies are flattened; faults and transport
// failures get the generic wording so backend internals never leak into the
// toast.
func (f *FormController) failure(err error) SubmitResult {
	msg := msgSubmitRejected
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		switch {
		case len(appErr.Fields) > 0:
			msg = appErr.FlattenFields()
		case appErr.Code == domain.CodeRemoteFault:
			msg = msgSubmitFault
		case appErr.Code == domain.CodeTransport:
			msg = appErr.Message
		}
	}
	f.notifier.Notify(msg, notify.Error)
	return SubmitResult{FormError: msg}
}

// prunedValues drops empty values so optional fields are omitted rather than
// sent as empty strings, which the backend rejects for foreign keys.
func prunedValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		if value != "" {
			out[key] = value
		}
	}
	return out
}

// changedValues keeps only the values that differ from the original record's
// rendering of the same field.
func changedValues(original domain.Record, values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		if original.String(key) != value {
			out[key] = value
		}
	}
	return out
}
