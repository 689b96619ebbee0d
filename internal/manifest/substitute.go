package manifest

import (
	"fmt"
	"strings"
	"text/template"
)

// Values maps placeholder keys to the values substituted into templates.
type Values map[string]any

// Substitute resolves placeholders in a deep copy of docs.
//
// Every string (value or map key) containing "{{" is executed as a Go
// template against values. A placeholder naming a missing key is an error.
// The input documents are left untouched.
func Substitute(docs []Document, values Values) ([]Document, error) {
	out := make([]Document, len(docs))
	for i, doc := range docs {
		resolved, err := substituteValue(doc, values)
		if err != nil {
			return nil, fmt.Errorf("failed to substitute values in document %d (%s %s): %w",
				i, doc.Kind(), doc.Name(), err)
		}
		out[i] = Document(resolved.(map[string]any))
	}
	return out, nil
}

func substituteValue(v any, values Values) (any, error) {
	switch typed := v.(type) {
	case Document:
		return substituteValue(map[string]any(typed), values)
	case map[string]any:
		m := make(map[string]any, len(typed))
		for k, child := range typed {
			key, err := substituteString(k, values)
			if err != nil {
				return nil, err
			}
			resolved, err := substituteValue(child, values)
			if err != nil {
				return nil, err
			}
			m[key] = resolved
		}
		return m, nil
	case []any:
		s := make([]any, len(typed))
		for i, child := range typed {
			resolved, err := substituteValue(child, values)
			if err != nil {
				return nil, err
			}
			s[i] = resolved
		}
		return s, nil
	case string:
		return substituteString(typed, values)
	default:
		return v, nil
	}
}

func substituteString(s string, values Values) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	tmpl, err := template.New("value").Option("missingkey=error").Parse(s)
	if err != nil {
		return "", fmt.Errorf("failed to parse placeholder %q: %w", s, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, map[string]any(values)); err != nil {
		return "", fmt.Errorf("failed to resolve placeholder %q: %w", s, err)
	}
	return sb.String(), nil
}
