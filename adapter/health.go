package adapter

// Overall health labels reported by RegistryHealth.
const (
	HealthLabelHealthy  = "healthy"
	HealthLabelDegraded = "degraded"
)

// healthyScoreThreshold is the health score at or above which the registry
// reports itself healthy.
const healthyScoreThreshold = 0.8

// Health is a point-in-time health snapshot of one adapter. An adapter is
// healthy whenever its circuit is not open.
type Health struct {
	Healthy bool `json:"healthy"`
	// State is the circuit state: "closed", "open" or "half_open".
	State string `json:"state"`
	// TimeUntilRecovery is the remaining cooldown in seconds, 0 unless open.
	TimeUntilRecovery float64 `json:"timeUntilRecovery"`
}

// Metrics is a point-in-time counter snapshot of one adapter. Rates are
// derived at snapshot time and are 0 when no calls have been made.
type Metrics struct {
	TotalCalls      int64   `json:"totalCalls"`
	SuccessfulCalls int64   `json:"successfulCalls"`
	FailedCalls     int64   `json:"failedCalls"`
	CacheHits       int64   `json:"cacheHits"`
	FallbackUses    int64   `json:"fallbackUses"`
	CircuitState    string  `json:"circuitState"`
	SuccessRate     float64 `json:"successRate"`
	CacheHitRate    float64 `json:"cacheHitRate"`
}

// RegistryHealth aggregates health across all registered adapters.
// HealthScore is healthyCount/totalCount, defined as 1.0 for an empty
// registry; OverallHealth is "healthy" at a score of 0.8 or above.
type RegistryHealth struct {
	OverallHealth string            `json:"overallHealth"`
	HealthScore   float64           `json:"healthScore"`
	TotalCount    int               `json:"totalCount"`
	HealthyCount  int               `json:"healthyCount"`
	Adapters      map[string]Health `json:"adapters"`
}

// RegistryMetrics sums the call counters across all registered adapters and
// derives aggregate rates, with the per-adapter snapshots alongside.
type RegistryMetrics struct {
	TotalCalls      int64              `json:"totalCalls"`
	SuccessfulCalls int64              `json:"successfulCalls"`
	FailedCalls     int64              `json:"failedCalls"`
	CacheHits       int64              `json:"cacheHits"`
	FallbackUses    int64              `json:"fallbackUses"`
	SuccessRate     float64            `json:"successRate"`
	CacheHitRate    float64            `json:"cacheHitRate"`
	Adapters        map[string]Metrics `json:"adapters"`
}
