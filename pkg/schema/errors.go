package schema

import "fmt"

// Error codes reported by Validate. The code and field name form the stable
// prefix of the error message (e.g. "missing_field:path").
const (
	CodeMissingField = "missing_field"
	CodeTypeMismatch = "type_mismatch"
	CodeInvalidEnum  = "invalid_enum"
)

// FieldError reports the first offending field found during validation.
type FieldError struct {
	Code   string // missing_field, type_mismatch or invalid_enum
	Field  string
	Detail string // optional human-readable context
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s:%s", e.Code, e.Field)
	}
	return fmt.Sprintf("%s:%s (%s)", e.Code, e.Field, e.Detail)
}

func missingField(name string) *FieldError {
	return &FieldError{Code: CodeMissingField, Field: name}
}

func typeMismatch(name string, want Kind, got any) *FieldError {
	return &FieldError{
		Code:   CodeTypeMismatch,
		Field:  name,
		Detail: fmt.Sprintf("expected %s, got %T", want, got),
	}
}

func invalidEnum(name string, allowed []string) *FieldError {
	return &FieldError{
		Code:   CodeInvalidEnum,
		Field:  name,
		Detail: fmt.Sprintf("allowed: %v", allowed),
	}
}
