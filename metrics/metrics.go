// Package metrics defines the instrumentation boundary for the swap
// pipeline and the facilitator.
package metrics

import "time"

// Recorder receives event counters and operation latencies. Label keys in
// use: network, reason, kind, success.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
