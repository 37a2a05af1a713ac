/*
Package state
File: util.go
Description:
    Small field-access helpers for the nested map[string]any payloads that
    show up inside journal event fields (module lists, ingredient arrays,
    engineering blocks) once decoded.Event.Str/Int/Float handle the
    top-level event fields; these cover one level deeper.
*/
package state

func mapStr(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func mapBool(m map[string]any, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func mapFloat(m map[string]any, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

func mapInt(m map[string]any, key string) int {
	return int(mapFloat(m, key))
}

func mapInt64(m map[string]any, key string) int64 {
	return int64(mapFloat(m, key))
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampFloat(v, lo, hi float64) float64 {
	return maxFloat(lo, minFloat(v, hi))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
