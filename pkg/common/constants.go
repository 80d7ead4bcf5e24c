package common

import "time"

const (
	MemberCacheTTL = 5 * time.Minute
	OptionCacheTTL = 5 * time.Minute

	TraceIDHeader = "X-Trace-Id"
)
