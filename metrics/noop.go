package metrics

import "time"

// NoopRecorder drops all measurements. The default for components built
// without instrumentation.
type NoopRecorder struct{}

func (NoopRecorder) IncCounter(string, map[string]string)                    {}
func (NoopRecorder) ObserveLatency(string, time.Duration, map[string]string) {}
