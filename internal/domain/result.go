package domain

// Result is the opaque payload a collaborator returns. A present
// "error" key is the discriminator between the success and the
// degraded rendering path for every intent.
type Result map[string]any

// Failed reports whether the collaborator call failed.
func (r Result) Failed() bool {
	_, ok := r["error"]
	return ok
}

// ErrResult wraps a collaborator failure as a renderable Result.
func ErrResult(err error) Result {
	return Result{"error": err.Error()}
}

// Str returns the string under key, or fallback when absent or not a
// string.
func (r Result) Str(key, fallback string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return fallback
}

// Num returns the numeric value under key. JSON decoding yields
// float64; int is accepted for results built in-process.
func (r Result) Num(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Int returns the numeric value under key truncated to int.
func (r Result) Int(key string) int {
	return int(r.Num(key))
}

// Sub returns the nested Result under key (empty when absent).
func (r Result) Sub(key string) Result {
	switch v := r[key].(type) {
	case Result:
		return v
	case map[string]any:
		return Result(v)
	}
	return Result{}
}

// List returns the slice of nested Results under key.
func (r Result) List(key string) []Result {
	var out []Result
	switch v := r[key].(type) {
	case []Result:
		return v
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Result(m))
			}
		}
	case []map[string]any:
		for _, m := range v {
			out = append(out, Result(m))
		}
	}
	return out
}
