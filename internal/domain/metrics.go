package domain

// EngineMetrics is the aggregate snapshot returned by
// GET /v1/metrics/engine: per-intent query counts and error/cache
// rates since process start.
type EngineMetrics struct {
	TotalQueries     int64            `json:"totalQueries"`
	IntentCounts     map[string]int64 `json:"intentCounts"`
	UnknownRate      float64          `json:"unknownRate"`
	CollaboratorErrs int64            `json:"collaboratorErrors"`
	ErrorRate        float64          `json:"errorRate"`
	CacheHitRate     float64          `json:"cacheHitRate"`
	Period           string           `json:"period"`
}
