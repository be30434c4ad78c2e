package models

// FieldType classifies an HTML form field.
type FieldType string

const (
	FieldHidden   FieldType = "hidden"
	FieldSubmit   FieldType = "submit"
	FieldButton   FieldType = "button"
	FieldImage    FieldType = "image"
	FieldPassword FieldType = "password"
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
)

// FormField is one named input of a discovered form.
type FormField struct {
	Name         string
	Type         FieldType
	DefaultValue string
	// Autocomplete is the field's raw autocomplete attribute value, or ""
	// if unset.
	Autocomplete string
}

// Form is a discovered HTML form. Action is always resolved to an absolute
// URL before the form is stored — no caller sees a relative action.
type Form struct {
	Action string
	Method string // GET or POST
	Fields []FormField
	// CSRFField holds the name of the field recognized as a CSRF token, or
	// "" if none was detected.
	CSRFField string
}

// NonSubmitFields returns fields a probe can safely overwrite with a test
// payload: everything except submit/button/image controls.
func (f *Form) NonSubmitFields() []FormField {
	out := make([]FormField, 0, len(f.Fields))
	for _, fld := range f.Fields {
		switch fld.Type {
		case FieldSubmit, FieldButton, FieldImage:
			continue
		}
		out = append(out, fld)
	}
	return out
}

// HasPasswordField reports whether the form carries a password input.
func (f *Form) HasPasswordField() bool {
	for _, fld := range f.Fields {
		if fld.Type == FieldPassword {
			return true
		}
	}
	return false
}

// FirstFieldOfType returns the first field of the given type, if any.
func (f *Form) FirstFieldOfType(t FieldType) (FormField, bool) {
	for _, fld := range f.Fields {
		if fld.Type == t {
			return fld, true
		}
	}
	return FormField{}, false
}
