package raw

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TextKey is the key wrapped text leaves carry their value under.
const TextKey = "#text"

// List coerces a value that may be a single element or a list into a list.
// nil yields an empty list.
func List(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if item != nil {
				out = append(out, item)
			}
		}
		return out
	case []map[string]any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, item)
		}
		return out
	case []string:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, item)
		}
		return out
	}
	return []any{v}
}

// Objects is List restricted to object elements.
func Objects(v any) []map[string]any {
	items := List(v)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Object returns the first object element of v, or nil.
func Object(v any) map[string]any {
	objs := Objects(v)
	if len(objs) == 0 {
		return nil
	}
	return objs[0]
}

// Text reads a text leaf whether it is bare or wrapped under TextKey.
// Numbers and booleans are rendered the way they appeared in JSON.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		if inner, ok := t[TextKey]; ok {
			return Text(inner)
		}
		return ""
	case []any:
		for _, item := range t {
			if s := Text(item); s != "" {
				return s
			}
		}
	}
	return ""
}

// Bool reads provider flags: true, "true", "Y", "yes", "1".
func Bool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(Text(v)) {
	case "true", "y", "yes", "1":
		return true
	}
	return false
}

// IsEmpty reports whether v carries no usable value.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(List(t)) == 0
	case map[string]any:
		if len(t) == 0 {
			return true
		}
		if inner, ok := t[TextKey]; ok && len(t) == 1 {
			return IsEmpty(inner)
		}
	}
	return false
}
