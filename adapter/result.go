package adapter

import (
	"encoding/json"
	"time"

	"github.com/kbukum/adapterkit/errors"
)

// Result is the uniform outcome wrapper returned by Call. Exactly one of
// Data and Err is meaningful, selected by Success. Callers that only check
// Success get fully-degraded behavior instead of a crash.
type Result[O any] struct {
	// Success reports whether Data holds a usable response.
	Success bool

	// Data is the response. Zero value when Success is false.
	Data O

	// Err describes the failure. Nil when Success is true.
	Err *errors.AppError

	// Latency is the wall-clock duration of the whole call, including
	// retries and backoff sleeps.
	Latency time.Duration

	// FromCache marks a response served from the result cache.
	FromCache bool

	// FromFallback marks a response served by the hook's fallback.
	FromFallback bool

	// RetryCount is the index of the attempt that produced the outcome,
	// or MaxRetries when every attempt failed.
	RetryCount int
}

// resultWire is the cross-service JSON shape shared with non-Go consumers.
type resultWire struct {
	Success      bool    `json:"success"`
	Data         any     `json:"data"`
	Error        *string `json:"error"`
	LatencyMs    float64 `json:"latencyMs"`
	FromCache    bool    `json:"fromCache"`
	FromFallback bool    `json:"fromFallback"`
	RetryCount   int     `json:"retryCount"`
}

// MarshalJSON emits the wire shape: latency flattened to float milliseconds,
// the error flattened to its message string, and data null on failure.
func (r Result[O]) MarshalJSON() ([]byte, error) {
	w := resultWire{
		Success:      r.Success,
		LatencyMs:    float64(r.Latency) / float64(time.Millisecond),
		FromCache:    r.FromCache,
		FromFallback: r.FromFallback,
		RetryCount:   r.RetryCount,
	}
	if r.Success {
		w.Data = r.Data
	}
	if r.Err != nil {
		msg := r.Err.Error()
		w.Error = &msg
	}
	return json.Marshal(w)
}

// successResult builds a success outcome.
func successResult[O any](data O) Result[O] {
	return Result[O]{Success: true, Data: data}
}

// failureResult builds a failure outcome.
func failureResult[O any](err *errors.AppError) Result[O] {
	return Result[O]{Success: false, Err: err}
}
