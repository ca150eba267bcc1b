package servicedef

import "strings"

// lowerFirst lower-cases only the first character of a key. The ECS API's
// key set only ever differs from the file convention in its first character,
// so nothing smarter is attempted.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// normalizeKeys walks an untyped YAML tree and rewrites every mapping key at
// every depth with lowerFirst. Scalar leaves are returned unchanged.
func normalizeKeys(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(node))
		for k, val := range node {
			out[lowerFirst(k)] = normalizeKeys(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(node))
		for i, val := range node {
			out[i] = normalizeKeys(val)
		}
		return out
	default:
		return v
	}
}
