package schema

import "slices"

// Validate checks raw against the schema and returns a fresh map with
// defaults applied and types coerced to their canonical Go shapes
// (string, float64, bool, []string, map[string]string).
//
// Fields not declared in the schema are ignored for forward compatibility.
// Validation stops at the first offending field, in declaration order.
// Validate has no side effects on raw.
func Validate(s Schema, raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s))

	for _, f := range s {
		value, present := raw[f.Name]
		if !present {
			if f.Required {
				return nil, missingField(f.Name)
			}
			if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}

		coerced, err := coerce(f, value)
		if err != nil {
			return nil, err
		}
		out[f.Name] = coerced
	}

	return out, nil
}

func coerce(f Field, value any) (any, error) {
	switch f.Kind {
	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, typeMismatch(f.Name, f.Kind, value)
		}
		return s, nil

	case KindNumber:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		default:
			return nil, typeMismatch(f.Name, f.Kind, value)
		}

	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, typeMismatch(f.Name, f.Kind, value)
		}
		return b, nil

	case KindStringSlice:
		switch v := value.(type) {
		case []string:
			return slices.Clone(v), nil
		case []any:
			// JSON arrays arrive as []any.
			out := make([]string, 0, len(v))
			for _, elem := range v {
				s, ok := elem.(string)
				if !ok {
					return nil, typeMismatch(f.Name, f.Kind, elem)
				}
				out = append(out, s)
			}
			return out, nil
		default:
			return nil, typeMismatch(f.Name, f.Kind, value)
		}

	case KindStringMap:
		switch v := value.(type) {
		case map[string]string:
			out := make(map[string]string, len(v))
			for k, s := range v {
				out[k] = s
			}
			return out, nil
		case map[string]any:
			// JSON objects arrive as map[string]any.
			out := make(map[string]string, len(v))
			for k, elem := range v {
				s, ok := elem.(string)
				if !ok {
					return nil, typeMismatch(f.Name, f.Kind, elem)
				}
				out[k] = s
			}
			return out, nil
		default:
			return nil, typeMismatch(f.Name, f.Kind, value)
		}

	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return nil, typeMismatch(f.Name, f.Kind, value)
		}
		if !slices.Contains(f.AllowedValues, s) {
			return nil, invalidEnum(f.Name, f.AllowedValues)
		}
		return s, nil
	}

	return nil, typeMismatch(f.Name, f.Kind, value)
}
