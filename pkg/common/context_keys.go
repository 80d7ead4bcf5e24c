package common

type contextKey string

const (
	TraceIdKey contextKey = "trace_id"
	LatencyKey contextKey = "__execution_time"
)
