// Package form parses HTML form submissions into typed inputs and validates
// them.  Every form is described by a Spec that enumerates its fields, which
// ones are required and which values they accept; validation walks the Spec
// in order and yields a FieldError per failing field.
package form

import (
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Kind describes how a field is read from url.Values.
type Kind int

const (
	Text     Kind = iota // single trimmed value
	Multi                // every submitted value, trimmed, deduplicated
	Checkbox             // true when the key is present
)

// Field is the static description of one form field.
type Field struct {
	Name     string         // form key, e.g. "facebook_link"
	Label    string         // human readable label used in messages
	Kind     Kind           // how the value is read
	Required bool           // empty values are rejected
	Choices  []string       // when set, every value must be one of these
	URL      bool           // value must be an absolute URL
	Pattern  *regexp.Regexp // value must match
	Max      int            // maximum length in characters, 0 for none
	Rules    []validation.Rule
}

// Spec enumerates the fields of one form.
type Spec struct {
	Name   string
	Fields []Field
}

// FieldError is a validation failure of one field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// Errors is the ordered list of failures of one submission.
type Errors []FieldError

// Error implements error.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field failed.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Get returns the message of field or "".
func (e Errors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Add appends a failure for field using the label declared in spec.
func (e *Errors) Add(spec Spec, field, msg string) {
	label := field
	if f, ok := spec.Field(field); ok {
		label = f.Label
	}
	*e = append(*e, FieldError{Field: field, Label: label, Message: msg})
}

// Field looks a field up by name.
func (s Spec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// rules converts the declarative field description into ozzo rules.
func (f Field) rules() []validation.Rule {
	var rules []validation.Rule
	if f.Required {
		rules = append(rules, validation.Required.Error("is required"))
	}
	var each []validation.Rule
	if len(f.Choices) > 0 {
		allowed := make([]interface{}, len(f.Choices))
		for i, c := range f.Choices {
			allowed[i] = c
		}
		each = append(each, validation.In(allowed...).Error("is not a valid choice"))
	}
	if f.URL {
		each = append(each, is.URL.Error("must be a valid URL"))
	}
	if f.Pattern != nil {
		each = append(each, validation.Match(f.Pattern).Error("has an invalid format"))
	}
	if f.Max > 0 {
		each = append(each, validation.RuneLength(0, f.Max))
	}
	each = append(each, f.Rules...)
	if f.Kind == Multi {
		rules = append(rules, validation.Each(each...))
	} else {
		rules = append(rules, each...)
	}
	return rules
}

// Validate checks the values read by Read against the spec.  Checkbox
// fields are never validated.
func (s Spec) Validate(values Values) Errors {
	var errs Errors
	for _, f := range s.Fields {
		var err error
		switch f.Kind {
		case Checkbox:
			continue
		case Multi:
			err = validation.Validate(values.List(f.Name), f.rules()...)
		default:
			err = validation.Validate(values.Get(f.Name), f.rules()...)
		}
		if err != nil {
			errs = append(errs, FieldError{Field: f.Name, Label: f.Label, Message: message(err)})
		}
	}
	return errs
}

// message flattens ozzo errors; Each reports per-index errors which are
// collapsed into the first message.
func message(err error) string {
	if ve, ok := err.(validation.Errors); ok {
		for _, inner := range ve {
			if inner != nil {
				return message(inner)
			}
		}
	}
	return err.Error()
}

// Values is a submission normalized according to a Spec.
type Values struct {
	single map[string]string
	multi  map[string][]string
	checks map[string]bool
}

// Read normalizes raw against the spec: text values are trimmed, multi
// values trimmed and deduplicated, checkboxes resolved by presence.
func (s Spec) Read(raw url.Values) Values {
	v := Values{single: map[string]string{}, multi: map[string][]string{}, checks: map[string]bool{}}
	for _, f := range s.Fields {
		switch f.Kind {
		case Checkbox:
			_, v.checks[f.Name] = raw[f.Name]
		case Multi:
			v.multi[f.Name] = Unique(raw[f.Name])
		default:
			v.single[f.Name] = strings.TrimSpace(raw.Get(f.Name))
		}
	}
	return v
}

func (v Values) Get(name string) string    { return v.single[name] }
func (v Values) List(name string) []string { return v.multi[name] }
func (v Values) Bool(name string) bool     { return v.checks[name] }

// Unique trims values, drops empties and keeps the first occurrence of
// each.
func Unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := []string{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
