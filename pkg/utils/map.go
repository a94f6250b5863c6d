package utils

// Get returns m[key] when it holds a T, otherwise defaultValue
func Get[T any](m map[string]any, key string, defaultValue T) T {
	if m == nil {
		return defaultValue
	}
	v, ok := m[key].(T)
	if !ok {
		return defaultValue
	}
	return v
}

// GetString is Get for string arguments
func GetString(m map[string]any, key string, defaultValue string) string {
	return Get(m, key, defaultValue)
}
