package graph

// GetString extracts a string value from a Record.
func GetString(r Record, key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt64 extracts an int64 value from a Record. Bolt returns
// integers as int64 but handles int and float64 too.
func GetInt64(r Record, key string) int64 {
	if v, ok := r[key]; ok {
		switch n := v.(type) {
		case int64:
			return n
		case int:
			return int64(n)
		case float64:
			return int64(n)
		}
	}
	return 0
}

// GetBool extracts a bool value from a Record.
func GetBool(r Record, key string) bool {
	if v, ok := r[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
