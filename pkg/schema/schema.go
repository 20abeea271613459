// Package schema declares tool parameter shapes as data and validates raw
// argument maps against them. Every tool's contract is a Schema interpreted
// by one generic validator instead of ad hoc per-tool checks.
package schema

// Kind identifies the expected shape of a field value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindStringSlice
	KindStringMap
	KindEnum
)

// String returns the human-readable type name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindStringSlice:
		return "array<string>"
	case KindStringMap:
		return "map<string,string>"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Field declares one parameter of a tool.
type Field struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool
	// Default is applied only when the field is entirely absent from the
	// input, never when it is explicitly set to an empty value.
	Default any
	// AllowedValues constrains KindEnum fields.
	AllowedValues []string
}

// Schema is an ordered set of field declarations. Order is preserved for
// capability advertisement.
type Schema []Field

// --- Declaration helpers ---

// String declares a string field.
func String(name, desc string) Field {
	return Field{Name: name, Kind: KindString, Description: desc}
}

// Number declares a numeric field.
func Number(name, desc string) Field {
	return Field{Name: name, Kind: KindNumber, Description: desc}
}

// Bool declares a boolean field.
func Bool(name, desc string) Field {
	return Field{Name: name, Kind: KindBool, Description: desc}
}

// StringSlice declares a field holding a list of strings.
func StringSlice(name, desc string) Field {
	return Field{Name: name, Kind: KindStringSlice, Description: desc}
}

// StringMap declares a field holding a string-to-string map.
func StringMap(name, desc string) Field {
	return Field{Name: name, Kind: KindStringMap, Description: desc}
}

// Enum declares a string field restricted to the given values.
func Enum(name, desc string, allowed ...string) Field {
	return Field{Name: name, Kind: KindEnum, Description: desc, AllowedValues: allowed}
}

// Req marks the field required.
func (f Field) Req() Field {
	f.Required = true
	return f
}

// Def sets the field's default value.
func (f Field) Def(v any) Field {
	f.Default = v
	return f
}
